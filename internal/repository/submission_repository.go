package repository

import (
	"skillforge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// SubmissionFilter 列表查询的可选过滤条件
type SubmissionFilter struct {
	ChallengeID *uint
	Status      model.SubmissionStatus
}

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.First(&submission, id).Error
	return &submission, err
}

// FindByUserID 获取用户的提交记录，按提交时间倒序
func (r *SubmissionRepository) FindByUserID(userID uint, filter SubmissionFilter) ([]model.Submission, error) {
	query := r.DB.Where("user_id = ?", userID)
	if filter.ChallengeID != nil {
		query = query.Where("challenge_id = ?", *filter.ChallengeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var submissions []model.Submission
	err := query.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// UpdateFields 按字段更新提交，可运行在事务内
func (r *SubmissionRepository) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if db == nil {
		db = r.DB
	}
	fields["updated_at"] = time.Now()
	return db.Model(&model.Submission{}).Where("id = ?", id).Updates(fields).Error
}
