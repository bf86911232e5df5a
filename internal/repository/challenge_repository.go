package repository

import (
	"skillforge_backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ChallengeFilter 列表查询的可选过滤条件
type ChallengeFilter struct {
	GoalID     *uint
	Category   string
	Difficulty model.DifficultyLevel
	IsActive   *bool
	Search     string
	Tags       []string
	Page       int
	Limit      int
}

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	return &challenge, err
}

// UpdateFields 按字段更新挑战
func (r *ChallengeRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.DB.Model(&model.Challenge{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ChallengeRepository) Delete(id uint) error {
	return r.DB.Select("Submissions").Delete(&model.Challenge{BaseModel: model.BaseModel{ID: id}}).Error
}

// Find 按过滤条件分页查询挑战
func (r *ChallengeRepository) Find(filter ChallengeFilter) ([]model.Challenge, int64, error) {
	query := r.DB.Model(&model.Challenge{})

	if filter.GoalID != nil {
		query = query.Where("goal_id = ?", *filter.GoalID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	// 标签取交集：逗号分隔列规整后逐个匹配，必须先于计数和分页
	for _, tag := range filter.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		query = query.Where("(',' || LOWER(REPLACE(tags, ' ', '')) || ',') LIKE ?", "%,"+tag+",%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var challenges []model.Challenge
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&challenges).Error
	if err != nil {
		return nil, 0, err
	}

	return challenges, total, nil
}
