package service

import (
	"encoding/json"
	"testing"

	"skillforge_backend/internal/model"
	"skillforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedSubmission 为指定用户准备一条可被评审的提交
func seedSubmission(t *testing.T, db *gorm.DB, userID uint) *model.Submission {
	t.Helper()

	challenges := newChallengeService(db)
	submissions := newSubmissionService(db)

	challenge, err := challenges.CreateChallenge(CreateChallengeRequest{Title: "互评挑战"})
	require.NoError(t, err)

	result, err := submissions.CreateSubmission(userID, CreateSubmissionRequest{
		ChallengeID: challenge.ID,
		Content:     "提交内容",
	})
	require.NoError(t, err)
	return result.Submission
}

func TestSubmitReview_SelfReviewRejected(t *testing.T) {
	db := newTestDB(t)
	s := newPeerReviewService(db)
	submission := seedSubmission(t, db, 1)

	_, err := s.SubmitReview(1, PeerReviewRequest{
		RevieweeID:   1,
		SubmissionID: submission.ID,
		Rating:       4,
	})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestSubmitReview_SubmissionMustBelongToReviewee(t *testing.T) {
	db := newTestDB(t)
	s := newPeerReviewService(db)
	submission := seedSubmission(t, db, 1)

	_, err := s.SubmitReview(2, PeerReviewRequest{
		RevieweeID:   3,
		SubmissionID: submission.ID,
		Rating:       4,
	})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = s.SubmitReview(2, PeerReviewRequest{
		RevieweeID:   1,
		SubmissionID: 999,
		Rating:       4,
	})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSubmitReview_RatingRange(t *testing.T) {
	db := newTestDB(t)
	s := newPeerReviewService(db)
	submission := seedSubmission(t, db, 1)

	for _, rating := range []int{0, 6} {
		_, err := s.SubmitReview(2, PeerReviewRequest{
			RevieweeID:   1,
			SubmissionID: submission.ID,
			Rating:       rating,
		})
		assert.ErrorIs(t, err, util.ErrValidation)
	}

	review, err := s.SubmitReview(2, PeerReviewRequest{
		RevieweeID:     1,
		SubmissionID:   submission.ID,
		ReviewText:     "结构清晰",
		Rating:         5,
		CriteriaScores: json.RawMessage(`{"readability":5}`),
	})
	require.NoError(t, err)
	assert.True(t, review.IsCompleted)
	assert.NotNil(t, review.CompletedAt)
}

func TestAssignThenCompleteReview(t *testing.T) {
	db := newTestDB(t)
	s := newPeerReviewService(db)
	submission := seedSubmission(t, db, 1)

	assigned, err := s.AssignReview(2, PeerReviewRequest{
		RevieweeID:   1,
		SubmissionID: submission.ID,
	})
	require.NoError(t, err)
	assert.False(t, assigned.IsCompleted)
	assert.Nil(t, assigned.CompletedAt)

	// 只有被指派的评审人能完成
	_, err = s.CompleteReview(3, assigned.ID, "好", 4, nil)
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	_, err = s.CompleteReview(2, assigned.ID, "好", 0, nil)
	assert.ErrorIs(t, err, util.ErrValidation)

	completed, err := s.CompleteReview(2, assigned.ID, "实现完整，边界处理到位", 4, json.RawMessage(`{"tests":4}`))
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.Equal(t, 4, completed.Rating)
	assert.NotNil(t, completed.CompletedAt)

	pending, err := s.ListPending(2)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListPending_FIFO(t *testing.T) {
	db := newTestDB(t)
	s := newPeerReviewService(db)

	first := seedSubmission(t, db, 1)
	second := seedSubmission(t, db, 3)

	_, err := s.AssignReview(2, PeerReviewRequest{RevieweeID: 1, SubmissionID: first.ID})
	require.NoError(t, err)
	_, err = s.AssignReview(2, PeerReviewRequest{RevieweeID: 3, SubmissionID: second.ID})
	require.NoError(t, err)

	pending, err := s.ListPending(2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].SubmissionID)
	assert.Equal(t, second.ID, pending[1].SubmissionID)
}

func TestListReceivedAndGiven(t *testing.T) {
	db := newTestDB(t)
	s := newPeerReviewService(db)
	submission := seedSubmission(t, db, 1)

	_, err := s.SubmitReview(2, PeerReviewRequest{
		RevieweeID:   1,
		SubmissionID: submission.ID,
		Rating:       3,
	})
	require.NoError(t, err)

	received, err := s.ListReceived(1)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.EqualValues(t, 2, received[0].ReviewerID)

	given, err := s.ListByReviewer(2)
	require.NoError(t, err)
	require.Len(t, given, 1)
	assert.EqualValues(t, 1, given[0].RevieweeID)

	none, err := s.ListByReviewer(9)
	require.NoError(t, err)
	assert.Empty(t, none)
}
