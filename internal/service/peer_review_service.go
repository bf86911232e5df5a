package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// PeerReviewService 处理互评的业务逻辑
type PeerReviewService struct {
	ReviewRepo     *repository.PeerReviewRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewPeerReviewService(
	reviewRepo *repository.PeerReviewRepository,
	submissionRepo *repository.SubmissionRepository,
) *PeerReviewService {
	return &PeerReviewService{
		ReviewRepo:     reviewRepo,
		SubmissionRepo: submissionRepo,
	}
}

// PeerReviewRequest 创建互评的请求结构
type PeerReviewRequest struct {
	RevieweeID     uint            `json:"revieweeId" binding:"required"`
	SubmissionID   uint            `json:"submissionId" binding:"required"`
	ReviewText     string          `json:"reviewText"`
	Rating         int             `json:"rating"`
	CriteriaScores json.RawMessage `json:"criteriaScores"`
}

func (s *PeerReviewService) validate(reviewerID uint, req PeerReviewRequest) (*model.Submission, error) {
	if reviewerID == req.RevieweeID {
		return nil, fmt.Errorf("%w: reviewer and reviewee must differ", util.ErrValidation)
	}

	submission, err := s.SubmissionRepo.FindByID(req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: submission %d", util.ErrNotFound, req.SubmissionID)
		}
		return nil, err
	}
	if submission.UserID != req.RevieweeID {
		return nil, fmt.Errorf("%w: submission does not belong to reviewee", util.ErrValidation)
	}
	return submission, nil
}

// AssignReview 指派一条待完成的评审
func (s *PeerReviewService) AssignReview(reviewerID uint, req PeerReviewRequest) (*model.PeerReview, error) {
	if _, err := s.validate(reviewerID, req); err != nil {
		return nil, err
	}

	review := &model.PeerReview{
		ReviewerID:     reviewerID,
		RevieweeID:     req.RevieweeID,
		SubmissionID:   req.SubmissionID,
		CriteriaScores: req.CriteriaScores,
		IsCompleted:    false,
	}
	return review, s.ReviewRepo.Create(review)
}

// SubmitReview 提交一条已完成的评审，评分必须在1-5之间
func (s *PeerReviewService) SubmitReview(reviewerID uint, req PeerReviewRequest) (*model.PeerReview, error) {
	if _, err := s.validate(reviewerID, req); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", util.ErrValidation)
	}

	now := time.Now()
	review := &model.PeerReview{
		ReviewerID:     reviewerID,
		RevieweeID:     req.RevieweeID,
		SubmissionID:   req.SubmissionID,
		ReviewText:     req.ReviewText,
		Rating:         req.Rating,
		CriteriaScores: req.CriteriaScores,
		IsCompleted:    true,
		CompletedAt:    &now,
	}
	return review, s.ReviewRepo.Create(review)
}

// CompleteReview 将已指派的评审标记为完成
func (s *PeerReviewService) CompleteReview(reviewerID, reviewID uint, reviewText string, rating int, criteriaScores json.RawMessage) (*model.PeerReview, error) {
	review, err := s.ReviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, util.ErrAccessDenied
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", util.ErrValidation)
	}

	fields := map[string]interface{}{
		"review_text":  reviewText,
		"rating":       rating,
		"is_completed": true,
		"completed_at": time.Now(),
	}
	if criteriaScores != nil {
		fields["criteria_scores"] = criteriaScores
	}
	if err := s.ReviewRepo.UpdateFields(reviewID, fields); err != nil {
		return nil, err
	}
	return s.ReviewRepo.FindByID(reviewID)
}

// ListPending 待处理评审，先进先出
func (s *PeerReviewService) ListPending(reviewerID uint) ([]model.PeerReview, error) {
	return s.ReviewRepo.FindPendingByReviewer(reviewerID)
}

// ListReceived 收到的评审
func (s *PeerReviewService) ListReceived(revieweeID uint) ([]model.PeerReview, error) {
	return s.ReviewRepo.FindByReviewee(revieweeID)
}

// ListByReviewer 给出的评审
func (s *PeerReviewService) ListByReviewer(reviewerID uint) ([]model.PeerReview, error) {
	return s.ReviewRepo.FindByReviewer(reviewerID)
}
