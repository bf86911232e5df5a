package service

import (
	"errors"
	"fmt"
	"math"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"skillforge_backend/pkg/logger"
	"skillforge_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GoalService 处理学习目标的业务逻辑
type GoalService struct {
	GoalRepo *repository.GoalRepository
	DB       *gorm.DB
}

func NewGoalService(goalRepo *repository.GoalRepository, db *gorm.DB) *GoalService {
	return &GoalService{
		GoalRepo: goalRepo,
		DB:       db,
	}
}

// CreateGoalRequest 创建学习目标的请求结构
type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description" binding:"max=2000"`
	Category    string     `json:"category" binding:"max=100"`
	Difficulty  string     `json:"difficulty"`
	TargetDate  *time.Time `json:"targetDate"`
}

// UpdateGoalRequest 更新学习目标的请求结构，未提供的字段保持原值
type UpdateGoalRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Category           *string    `json:"category"`
	Difficulty         *string    `json:"difficulty"`
	TargetDate         *time.Time `json:"targetDate"`
	ProgressPercentage *int       `json:"progressPercentage"`
	IsCompleted        *bool      `json:"isCompleted"`
}

// GoalListFilter 目标列表过滤条件
type GoalListFilter struct {
	Category    string
	Difficulty  string
	IsCompleted *bool
}

// ListGoals 获取用户的学习目标，始终按属主过滤
func (s *GoalService) ListGoals(userID uint, filter GoalListFilter) ([]model.Goal, error) {
	repoFilter := repository.GoalFilter{
		Category:    filter.Category,
		IsCompleted: filter.IsCompleted,
	}
	if filter.Difficulty != "" {
		d := model.DifficultyLevel(strings.ToLower(filter.Difficulty))
		if !model.ValidDifficulty(d) {
			return nil, fmt.Errorf("%w: invalid difficulty %q", util.ErrValidation, filter.Difficulty)
		}
		repoFilter.Difficulty = d
	}
	return s.GoalRepo.FindByUserID(userID, repoFilter)
}

// CreateGoal 创建新的学习目标
func (s *GoalService) CreateGoal(userID uint, req CreateGoalRequest) (*model.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if len(title) > 255 {
		return nil, fmt.Errorf("%w: title must be at most 255 characters", util.ErrValidation)
	}

	difficulty := model.DifficultyMedium
	if req.Difficulty != "" {
		difficulty = model.DifficultyLevel(strings.ToLower(req.Difficulty))
		if !model.ValidDifficulty(difficulty) {
			return nil, fmt.Errorf("%w: invalid difficulty %q", util.ErrValidation, req.Difficulty)
		}
	}

	goal := &model.Goal{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  difficulty,
		TargetDate:  req.TargetDate,
	}

	return goal, s.GoalRepo.Create(goal)
}

// GetGoalByID 获取特定ID的学习目标
func (s *GoalService) GetGoalByID(userID, goalID uint) (*model.Goal, error) {
	goal, err := s.GoalRepo.FindByIDAndUserID(goalID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

// UpdateGoal 部分更新学习目标
func (s *GoalService) UpdateGoal(userID, goalID uint, req UpdateGoalRequest) (*model.Goal, error) {
	if _, err := s.GetGoalByID(userID, goalID); err != nil {
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
	if req.TargetDate != nil {
		fields["target_date"] = *req.TargetDate
	}
	if req.ProgressPercentage != nil {
		p := *req.ProgressPercentage
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("%w: progress must be between 0 and 100", util.ErrValidation)
		}
		fields["progress_percentage"] = p
	}
	if req.IsCompleted != nil {
		fields["is_completed"] = *req.IsCompleted
		if *req.IsCompleted {
			// 标记完成时进度强制为100并记录完成时间
			fields["progress_percentage"] = 100
			fields["completed_at"] = time.Now()
		} else {
			fields["completed_at"] = nil
		}
	}

	if len(fields) > 0 {
		if err := s.GoalRepo.UpdateFields(goalID, fields); err != nil {
			return nil, err
		}
	}

	return s.GetGoalByID(userID, goalID)
}

// DeleteGoal 删除学习目标及其关联挑战
func (s *GoalService) DeleteGoal(userID, goalID uint) error {
	if _, err := s.GetGoalByID(userID, goalID); err != nil {
		return err
	}
	return s.GoalRepo.Delete(goalID)
}

// RecalculateProgress 重新计算目标进度：已完成挑战数/挑战总数
// 幂等操作，可在事务内执行（tx为nil时使用默认连接）
func (s *GoalService) RecalculateProgress(tx *gorm.DB, goalID uint) error {
	if tx == nil {
		tx = s.DB
	}

	total, completed, err := s.GoalRepo.CountChallenges(tx, goalID)
	if err != nil {
		return err
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(100 * float64(completed) / float64(total)))
	}

	fields := map[string]interface{}{
		"progress_percentage": progress,
		"updated_at":          time.Now(),
	}
	if progress == 100 {
		fields["is_completed"] = true
		fields["completed_at"] = time.Now()
	} else {
		fields["is_completed"] = false
		fields["completed_at"] = nil
	}

	if err := tx.Model(&model.Goal{}).Where("id = ?", goalID).Updates(fields).Error; err != nil {
		return err
	}

	monitoring.GoalProgressUpdates.Inc()
	return nil
}

// RecalculateProgressBestEffort 尽力而为的进度重算：失败只记日志，不影响主流程
func (s *GoalService) RecalculateProgressBestEffort(goalID uint) {
	if err := s.RecalculateProgress(nil, goalID); err != nil {
		logger.Log.Error("goal progress recalculation failed",
			zap.Uint("goalId", goalID),
			zap.Error(err))
	}
}
