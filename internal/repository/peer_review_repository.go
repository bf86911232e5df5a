package repository

import (
	"skillforge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type PeerReviewRepository struct {
	DB *gorm.DB
}

func NewPeerReviewRepository(db *gorm.DB) *PeerReviewRepository {
	return &PeerReviewRepository{DB: db}
}

func (r *PeerReviewRepository) Create(review *model.PeerReview) error {
	return r.DB.Create(review).Error
}

func (r *PeerReviewRepository) FindByID(id uint) (*model.PeerReview, error) {
	var review model.PeerReview
	err := r.DB.First(&review, id).Error
	return &review, err
}

// FindPendingByReviewer 查询待处理评审，按创建时间正序（先进先出）
func (r *PeerReviewRepository) FindPendingByReviewer(reviewerID uint) ([]model.PeerReview, error) {
	var reviews []model.PeerReview
	err := r.DB.Where("reviewer_id = ? AND is_completed = ?", reviewerID, false).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *PeerReviewRepository) FindByReviewee(revieweeID uint) ([]model.PeerReview, error) {
	var reviews []model.PeerReview
	err := r.DB.Where("reviewee_id = ?", revieweeID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *PeerReviewRepository) FindByReviewer(reviewerID uint) ([]model.PeerReview, error) {
	var reviews []model.PeerReview
	err := r.DB.Where("reviewer_id = ?", reviewerID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// UpdateFields 按字段更新评审
func (r *PeerReviewRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.DB.Model(&model.PeerReview{}).Where("id = ?", id).Updates(fields).Error
}
