package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

// ChallengeService 处理挑战的业务逻辑
type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	GoalRepo      *repository.GoalRepository
	GoalService   *GoalService
}

func NewChallengeService(
	challengeRepo *repository.ChallengeRepository,
	goalRepo *repository.GoalRepository,
	goalService *GoalService,
) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		GoalRepo:      goalRepo,
		GoalService:   goalService,
	}
}

// CreateChallengeRequest 创建挑战的请求结构
type CreateChallengeRequest struct {
	Title            string          `json:"title" binding:"required,max=255"`
	Description      string          `json:"description"`
	Instructions     string          `json:"instructions"`
	Category         string          `json:"category" binding:"max=100"`
	Difficulty       string          `json:"difficulty"`
	GoalID           *uint           `json:"goalId"`
	PointsReward     *int            `json:"pointsReward"`
	MaxAttempts      *int            `json:"maxAttempts"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	Tags             string          `json:"tags"`
	Prerequisites    json.RawMessage `json:"prerequisites"`
	TestCases        json.RawMessage `json:"testCases"`
}

// UpdateChallengeRequest 更新挑战的请求结构，未提供的字段保持原值
type UpdateChallengeRequest struct {
	Title            *string         `json:"title"`
	Description      *string         `json:"description"`
	Instructions     *string         `json:"instructions"`
	Category         *string         `json:"category"`
	Difficulty       *string         `json:"difficulty"`
	GoalID           *uint           `json:"goalId"`
	Status           *string         `json:"status"`
	PointsReward     *int            `json:"pointsReward"`
	MaxAttempts      *int            `json:"maxAttempts"`
	EstimatedMinutes *int            `json:"estimatedMinutes"`
	Tags             *string         `json:"tags"`
	Prerequisites    json.RawMessage `json:"prerequisites"`
	TestCases        json.RawMessage `json:"testCases"`
	IsActive         *bool           `json:"isActive"`
}

// ListChallenges 按过滤条件分页查询挑战
func (s *ChallengeService) ListChallenges(filter repository.ChallengeFilter) ([]model.Challenge, int64, error) {
	if filter.Difficulty != "" && !model.ValidDifficulty(filter.Difficulty) {
		return nil, 0, fmt.Errorf("%w: invalid difficulty %q", util.ErrValidation, filter.Difficulty)
	}
	return s.ChallengeRepo.Find(filter)
}

// CreateChallenge 创建新挑战
func (s *ChallengeService) CreateChallenge(req CreateChallengeRequest) (*model.Challenge, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}

	difficulty := model.DifficultyMedium
	if req.Difficulty != "" {
		difficulty = model.DifficultyLevel(strings.ToLower(req.Difficulty))
		if !model.ValidDifficulty(difficulty) {
			return nil, fmt.Errorf("%w: invalid difficulty %q", util.ErrValidation, req.Difficulty)
		}
	}

	// 关联目标必须存在
	if req.GoalID != nil {
		if _, err := s.GoalRepo.FindByID(*req.GoalID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: goal %d", util.ErrNotFound, *req.GoalID)
			}
			return nil, err
		}
	}

	points := 10
	if req.PointsReward != nil {
		points = *req.PointsReward
	}
	maxAttempts := 3
	if req.MaxAttempts != nil {
		maxAttempts = *req.MaxAttempts
	}
	instructions := req.Instructions
	if instructions == "" {
		instructions = req.Description
	}

	challenge := &model.Challenge{
		Title:            title,
		Description:      req.Description,
		Instructions:     instructions,
		Category:         req.Category,
		Difficulty:       difficulty,
		GoalID:           req.GoalID,
		Status:           model.ChallengeNotStarted,
		PointsReward:     points,
		MaxAttempts:      maxAttempts,
		EstimatedMinutes: req.EstimatedMinutes,
		Tags:             req.Tags,
		Prerequisites:    req.Prerequisites,
		TestCases:        req.TestCases,
		IsActive:         true,
	}

	return challenge, s.ChallengeRepo.Create(challenge)
}

// GetChallengeByID 获取特定ID的挑战
func (s *ChallengeService) GetChallengeByID(id uint) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return challenge, nil
}

// UpdateChallenge 部分更新挑战。状态变为completed时触发所属目标的进度重算，
// 重算失败只记日志，不影响本次更新
func (s *ChallengeService) UpdateChallenge(id uint, req UpdateChallengeRequest) (*model.Challenge, error) {
	challenge, err := s.GetChallengeByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 255 {
			return nil, fmt.Errorf("%w: title must be 1-255 characters", util.ErrValidation)
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Instructions != nil {
		fields["instructions"] = *req.Instructions
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Difficulty != nil {
		d := model.DifficultyLevel(strings.ToLower(*req.Difficulty))
		if !model.ValidDifficulty(d) {
			return nil, fmt.Errorf("%w: invalid difficulty %q", util.ErrValidation, *req.Difficulty)
		}
		fields["difficulty"] = d
	}
	if req.GoalID != nil {
		if _, err := s.GoalRepo.FindByID(*req.GoalID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: goal %d", util.ErrNotFound, *req.GoalID)
			}
			return nil, err
		}
		fields["goal_id"] = *req.GoalID
	}

	statusChanged := false
	if req.Status != nil {
		status := model.ChallengeStatus(strings.ToLower(*req.Status))
		if !model.ValidChallengeStatus(status) {
			return nil, fmt.Errorf("%w: invalid status %q", util.ErrValidation, *req.Status)
		}
		fields["status"] = status
		statusChanged = status != challenge.Status
	}
	if req.PointsReward != nil {
		fields["points_reward"] = *req.PointsReward
	}
	if req.MaxAttempts != nil {
		fields["max_attempts"] = *req.MaxAttempts
	}
	if req.EstimatedMinutes != nil {
		fields["estimated_minutes"] = *req.EstimatedMinutes
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if req.Prerequisites != nil {
		fields["prerequisites"] = req.Prerequisites
	}
	if req.TestCases != nil {
		fields["test_cases"] = req.TestCases
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.ChallengeRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.GetChallengeByID(id)
	if err != nil {
		return nil, err
	}

	if statusChanged && updated.GoalID != nil {
		s.GoalService.RecalculateProgressBestEffort(*updated.GoalID)
		updated, err = s.GetChallengeByID(id)
		if err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// DeleteChallenge 删除挑战，随后重算所属目标进度
func (s *ChallengeService) DeleteChallenge(id uint) error {
	challenge, err := s.GetChallengeByID(id)
	if err != nil {
		return err
	}
	if err := s.ChallengeRepo.Delete(id); err != nil {
		return err
	}
	if challenge.GoalID != nil {
		s.GoalService.RecalculateProgressBestEffort(*challenge.GoalID)
	}
	return nil
}

// CalculateDifficulty 综合评估挑战难度，结果限定在[1,5]
// 基础分: easy=1 medium=2 hard=3 expert=4；无效难度默认为2
func (s *ChallengeService) CalculateDifficulty(challenge *model.Challenge) int {
	base, ok := map[model.DifficultyLevel]float64{
		model.DifficultyEasy:   1,
		model.DifficultyMedium: 2,
		model.DifficultyHard:   3,
		model.DifficultyExpert: 4,
	}[challenge.Difficulty]
	if !ok {
		return 2
	}

	score := base
	if challenge.EstimatedMinutes > 120 {
		score += 1
	} else if challenge.EstimatedMinutes > 60 {
		score += 0.5
	}
	if countJSONItems(challenge.Prerequisites) > 3 {
		score += 0.5
	}
	if countJSONItems(challenge.TestCases) > 5 {
		score += 0.5
	}

	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	return int(math.Round(score))
}

func countJSONItems(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}
