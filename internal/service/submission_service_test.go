package service

import (
	"testing"

	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubmission_RequiresContentOrURL(t *testing.T) {
	db := newTestDB(t)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "挑战"})
	require.NoError(t, err)

	_, err = s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID})
	assert.ErrorIs(t, err, util.ErrValidation)

	result, err := s.CreateSubmission(1, CreateSubmissionRequest{
		ChallengeID: challenge.ID,
		URL:         "https://github.com/u/repo",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, result.Submission.Status)
	assert.False(t, result.Submission.SubmittedAt.IsZero())
	assert.Nil(t, result.GoalID)
}

func TestCreateSubmission_ChallengeNotFound(t *testing.T) {
	s := newSubmissionService(newTestDB(t))

	_, err := s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: 999, Content: "x"})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestGetSubmissionByID_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "挑战"})
	require.NoError(t, err)

	result, err := s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "答案"})
	require.NoError(t, err)

	_, err = s.GetSubmissionByID(result.Submission.ID, 2)
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	_, err = s.GetSubmissionByID(999, 1)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestUpdateSubmission_CompletedUpdatesGoalProgress(t *testing.T) {
	db := newTestDB(t)
	goals := newGoalService(db)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	goal, err := goals.CreateGoal(1, CreateGoalRequest{Title: "目标"})
	require.NoError(t, err)
	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "唯一挑战", GoalID: &goal.ID})
	require.NoError(t, err)
	result, err := s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "答案"})
	require.NoError(t, err)

	status := "completed"
	score := 92
	updated, err := s.UpdateSubmission(result.Submission.ID, 1, UpdateSubmissionRequest{
		Status: &status,
		Score:  &score,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SubmissionCompleted, updated.Status)
	assert.Equal(t, 92, updated.Score)
	assert.NotNil(t, updated.ReviewedAt)

	// 提交完成后挑战与目标进度同步更新
	gotChallenge, err := challenges.GetChallengeByID(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ChallengeCompleted, gotChallenge.Status)

	gotGoal, err := goals.GetGoalByID(1, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, gotGoal.ProgressPercentage)
	assert.True(t, gotGoal.IsCompleted)
}

func TestUpdateSubmission_RejectedLeavesGoalUntouched(t *testing.T) {
	db := newTestDB(t)
	goals := newGoalService(db)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	goal, err := goals.CreateGoal(1, CreateGoalRequest{Title: "目标"})
	require.NoError(t, err)
	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "挑战", GoalID: &goal.ID})
	require.NoError(t, err)
	result, err := s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "答案"})
	require.NoError(t, err)

	status := "rejected"
	feedback := "测试未通过"
	updated, err := s.UpdateSubmission(result.Submission.ID, 1, UpdateSubmissionRequest{
		Status:   &status,
		Feedback: &feedback,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SubmissionRejected, updated.Status)
	assert.NotNil(t, updated.ReviewedAt)

	gotGoal, err := goals.GetGoalByID(1, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotGoal.ProgressPercentage)
	assert.False(t, gotGoal.IsCompleted)
}

func TestUpdateSubmission_ScoreRange(t *testing.T) {
	db := newTestDB(t)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "挑战"})
	require.NoError(t, err)
	result, err := s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "x"})
	require.NoError(t, err)

	bad := 101
	_, err = s.UpdateSubmission(result.Submission.ID, 1, UpdateSubmissionRequest{Score: &bad})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestListSubmissions(t *testing.T) {
	db := newTestDB(t)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "挑战"})
	require.NoError(t, err)

	_, err = s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "a"})
	require.NoError(t, err)
	_, err = s.CreateSubmission(2, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "b"})
	require.NoError(t, err)

	mine, err := s.ListSubmissions(1, repository.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].Content)

	_, err = s.ListSubmissions(1, repository.SubmissionFilter{Status: "weird"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestAttachFile(t *testing.T) {
	db := newTestDB(t)
	challenges := newChallengeService(db)
	s := newSubmissionService(db)

	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "挑战"})
	require.NoError(t, err)
	result, err := s.CreateSubmission(1, CreateSubmissionRequest{ChallengeID: challenge.ID, Content: "x"})
	require.NoError(t, err)

	_, err = s.AttachFile(result.Submission.ID, 2, "uploads/a.zip")
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	updated, err := s.AttachFile(result.Submission.ID, 1, "uploads/a.zip")
	require.NoError(t, err)
	assert.Equal(t, "uploads/a.zip", updated.Attachment)
}
