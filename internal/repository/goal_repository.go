package repository

import (
	"skillforge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// GoalFilter 列表查询的可选过滤条件
type GoalFilter struct {
	Category    string
	Difficulty  model.DifficultyLevel
	IsCompleted *bool
}

// GoalRepository 处理学习目标的数据访问
type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

// Create 创建新的学习目标
func (r *GoalRepository) Create(goal *model.Goal) error {
	return r.DB.Create(goal).Error
}

// UpdateFields 按字段更新学习目标
func (r *GoalRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.DB.Model(&model.Goal{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除学习目标，连同其下挑战以及这些挑战的提交
func (r *GoalRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var challengeIDs []uint
		if err := tx.Model(&model.Challenge{}).
			Where("goal_id = ?", id).
			Pluck("id", &challengeIDs).Error; err != nil {
			return err
		}
		if len(challengeIDs) > 0 {
			if err := tx.Where("challenge_id IN ?", challengeIDs).
				Delete(&model.Submission{}).Error; err != nil {
				return err
			}
		}
		return tx.Select("Challenges").Delete(&model.Goal{BaseModel: model.BaseModel{ID: id}}).Error
	})
}

// FindByID 根据ID查找学习目标
func (r *GoalRepository) FindByID(id uint) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.First(&goal, id).Error
	return &goal, err
}

// FindByIDAndUserID 根据ID和用户ID查找学习目标
func (r *GoalRepository) FindByIDAndUserID(id, userID uint) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	return &goal, err
}

// FindByUserID 获取用户的学习目标，按创建时间倒序
func (r *GoalRepository) FindByUserID(userID uint, filter GoalFilter) ([]model.Goal, error) {
	query := r.DB.Where("user_id = ?", userID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}

	var goals []model.Goal
	err := query.Order("created_at DESC").Find(&goals).Error
	return goals, err
}

// CountChallenges 统计目标下的挑战总数与已完成数
func (r *GoalRepository) CountChallenges(db *gorm.DB, goalID uint) (total int64, completed int64, err error) {
	if db == nil {
		db = r.DB
	}
	if err = db.Model(&model.Challenge{}).Where("goal_id = ?", goalID).Count(&total).Error; err != nil {
		return
	}
	err = db.Model(&model.Challenge{}).
		Where("goal_id = ? AND status = ?", goalID, model.ChallengeCompleted).
		Count(&completed).Error
	return
}
