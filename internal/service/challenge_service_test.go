package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChallenge_Defaults(t *testing.T) {
	s := newChallengeService(newTestDB(t))

	challenge, err := s.CreateChallenge(CreateChallengeRequest{
		Title:       "实现LRU缓存",
		Description: "手写一个LRU",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DifficultyMedium, challenge.Difficulty)
	assert.Equal(t, model.ChallengeNotStarted, challenge.Status)
	assert.Equal(t, 10, challenge.PointsReward)
	assert.Equal(t, 3, challenge.MaxAttempts)
	assert.Equal(t, "手写一个LRU", challenge.Instructions)
	assert.True(t, challenge.IsActive)
	assert.Nil(t, challenge.GoalID)
}

func TestCreateChallenge_GoalMustExist(t *testing.T) {
	s := newChallengeService(newTestDB(t))

	missing := uint(999)
	_, err := s.CreateChallenge(CreateChallengeRequest{Title: "x", GoalID: &missing})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestUpdateChallenge_CompletedRecalculatesGoal(t *testing.T) {
	db := newTestDB(t)
	goals := newGoalService(db)
	s := newChallengeService(db)

	goal, err := goals.CreateGoal(1, CreateGoalRequest{Title: "目标"})
	require.NoError(t, err)

	challenge, err := s.CreateChallenge(CreateChallengeRequest{Title: "唯一挑战", GoalID: &goal.ID})
	require.NoError(t, err)

	status := "completed"
	updated, err := s.UpdateChallenge(challenge.ID, UpdateChallengeRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.ChallengeCompleted, updated.Status)

	got, err := goals.GetGoalByID(1, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.ProgressPercentage)
	assert.True(t, got.IsCompleted)
}

func TestUpdateChallenge_InvalidStatus(t *testing.T) {
	s := newChallengeService(newTestDB(t))

	challenge, err := s.CreateChallenge(CreateChallengeRequest{Title: "x"})
	require.NoError(t, err)

	status := "done"
	_, err = s.UpdateChallenge(challenge.ID, UpdateChallengeRequest{Status: &status})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestDeleteChallenge_RecalculatesGoal(t *testing.T) {
	db := newTestDB(t)
	goals := newGoalService(db)
	s := newChallengeService(db)

	goal, err := goals.CreateGoal(1, CreateGoalRequest{Title: "目标"})
	require.NoError(t, err)

	keep, err := s.CreateChallenge(CreateChallengeRequest{Title: "保留", GoalID: &goal.ID})
	require.NoError(t, err)
	drop, err := s.CreateChallenge(CreateChallengeRequest{Title: "删除", GoalID: &goal.ID})
	require.NoError(t, err)

	status := "completed"
	_, err = s.UpdateChallenge(keep.ID, UpdateChallengeRequest{Status: &status})
	require.NoError(t, err)

	// 1/2完成 → 50%，删掉未完成的那个后 → 100%
	got, err := goals.GetGoalByID(1, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.ProgressPercentage)

	require.NoError(t, s.DeleteChallenge(drop.ID))
	got, err = goals.GetGoalByID(1, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.ProgressPercentage)
}

func TestListChallenges_SearchAndTags(t *testing.T) {
	s := newChallengeService(newTestDB(t))

	_, err := s.CreateChallenge(CreateChallengeRequest{Title: "Goroutine泄漏排查", Tags: "go,concurrency"})
	require.NoError(t, err)
	_, err = s.CreateChallenge(CreateChallengeRequest{Title: "SQL优化", Tags: "db"})
	require.NoError(t, err)

	list, total, err := s.ListChallenges(repository.ChallengeFilter{Search: "goroutine"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	list, _, err = s.ListChallenges(repository.ChallengeFilter{Tags: []string{"go", "concurrency"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Goroutine泄漏排查", list[0].Title)
}

func TestListChallenges_TagFilterBeforePagination(t *testing.T) {
	s := newChallengeService(newTestDB(t))

	for i := 0; i < 5; i++ {
		_, err := s.CreateChallenge(CreateChallengeRequest{
			Title: fmt.Sprintf("稀有挑战%d", i),
			Tags:  "rare, go",
		})
		require.NoError(t, err)
	}
	for i := 0; i < 20; i++ {
		_, err := s.CreateChallenge(CreateChallengeRequest{Title: fmt.Sprintf("普通挑战%d", i)})
		require.NoError(t, err)
	}

	// 标签过滤必须先于计数和分页：命中项不因落在首页之外而丢失
	list, total, err := s.ListChallenges(repository.ChallengeFilter{
		Tags:  []string{"rare"},
		Page:  1,
		Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, list, 5)

	// 多标签取交集
	list, total, err = s.ListChallenges(repository.ChallengeFilter{Tags: []string{"rare", "go"}})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, list, 5)

	list, total, err = s.ListChallenges(repository.ChallengeFilter{Tags: []string{"rare", "db"}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}

func TestCalculateDifficulty(t *testing.T) {
	s := newChallengeService(newTestDB(t))

	prereqs := json.RawMessage(`["a","b","c","d"]`)
	cases := json.RawMessage(`[1,2,3,4,5,6]`)

	tests := []struct {
		name      string
		challenge model.Challenge
		want      int
	}{
		{"默认中等", model.Challenge{Difficulty: model.DifficultyMedium}, 2},
		{"简单", model.Challenge{Difficulty: model.DifficultyEasy}, 1},
		{"无效难度回退", model.Challenge{Difficulty: "bogus"}, 2},
		{"困难加时长", model.Challenge{Difficulty: model.DifficultyHard, EstimatedMinutes: 90}, 4},
		{"专家上限封顶", model.Challenge{
			Difficulty:       model.DifficultyExpert,
			EstimatedMinutes: 180,
			Prerequisites:    prereqs,
			TestCases:        cases,
		}, 5},
		{"中等全加成", model.Challenge{
			Difficulty:       model.DifficultyMedium,
			EstimatedMinutes: 130,
			Prerequisites:    prereqs,
			TestCases:        cases,
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CalculateDifficulty(&tt.challenge))
		})
	}
}
