package service

import (
	"errors"
	"fmt"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SubmissionService 处理挑战提交的业务逻辑
type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	ChallengeRepo  *repository.ChallengeRepository
	GoalService    *GoalService
	DB             *gorm.DB
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	challengeRepo *repository.ChallengeRepository,
	goalService *GoalService,
	db *gorm.DB,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		ChallengeRepo:  challengeRepo,
		GoalService:    goalService,
		DB:             db,
	}
}

// CreateSubmissionRequest 创建提交的请求结构
type CreateSubmissionRequest struct {
	ChallengeID uint   `json:"challengeId" binding:"required"`
	Content     string `json:"content"`
	URL         string `json:"url" binding:"max=512"`
	Notes       string `json:"notes"`
}

// UpdateSubmissionRequest 更新提交的请求结构，未提供的字段保持原值
type UpdateSubmissionRequest struct {
	Status        *string `json:"status"`
	Score         *int    `json:"score"`
	Feedback      *string `json:"feedback"`
	ReviewerNotes *string `json:"reviewerNotes"`
	Notes         *string `json:"notes"`
}

// SubmissionResult 创建提交的返回值，附带所属目标ID供进度更新使用
type SubmissionResult struct {
	Submission *model.Submission `json:"submission"`
	GoalID     *uint             `json:"goalId"`
}

// CreateSubmission 创建新的提交，挑战不存在时返回NotFound
func (s *SubmissionService) CreateSubmission(userID uint, req CreateSubmissionRequest) (*SubmissionResult, error) {
	challenge, err := s.ChallengeRepo.FindByID(req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: challenge %d", util.ErrNotFound, req.ChallengeID)
		}
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: submission content or url is required", util.ErrValidation)
	}

	submission := &model.Submission{
		ChallengeID: challenge.ID,
		UserID:      userID,
		Content:     req.Content,
		URL:         req.URL,
		Notes:       req.Notes,
		Status:      model.SubmissionPending,
		SubmittedAt: time.Now(),
	}

	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	return &SubmissionResult{Submission: submission, GoalID: challenge.GoalID}, nil
}

// GetSubmissionByID 获取提交，仅属主可见
func (s *SubmissionService) GetSubmissionByID(id, userID uint) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if submission.UserID != userID {
		return nil, util.ErrAccessDenied
	}
	return submission, nil
}

// ListSubmissions 获取用户的提交记录
func (s *SubmissionService) ListSubmissions(userID uint, filter repository.SubmissionFilter) ([]model.Submission, error) {
	if filter.Status != "" && !model.ValidSubmissionStatus(filter.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", util.ErrValidation, filter.Status)
	}
	return s.SubmissionRepo.FindByUserID(userID, filter)
}

// UpdateSubmission 部分更新提交。状态进入终态时自动记录评审时间；
// 状态变为completed时，提交更新与所属目标的进度重算在同一事务内完成
func (s *SubmissionService) UpdateSubmission(id, userID uint, req UpdateSubmissionRequest) (*model.Submission, error) {
	submission, err := s.GetSubmissionByID(id, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	var newStatus model.SubmissionStatus

	if req.Status != nil {
		newStatus = model.SubmissionStatus(strings.ToLower(*req.Status))
		if !model.ValidSubmissionStatus(newStatus) {
			return nil, fmt.Errorf("%w: invalid status %q", util.ErrValidation, *req.Status)
		}
		fields["status"] = newStatus
		if newStatus.IsTerminal() && !submission.Status.IsTerminal() {
			fields["reviewed_at"] = time.Now()
		}
	}
	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			return nil, fmt.Errorf("%w: score must be between 0 and 100", util.ErrValidation)
		}
		fields["score"] = *req.Score
	}
	if req.Feedback != nil {
		fields["feedback"] = *req.Feedback
	}
	if req.ReviewerNotes != nil {
		fields["reviewer_notes"] = *req.ReviewerNotes
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) == 0 {
		return submission, nil
	}

	completing := newStatus == model.SubmissionCompleted && submission.Status != model.SubmissionCompleted

	if completing {
		// 提交状态与目标进度在单个事务内更新，避免两步写入之间的不一致
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.SubmissionRepo.UpdateFields(tx, id, fields); err != nil {
				return err
			}

			challenge, err := s.ChallengeRepo.FindByID(submission.ChallengeID)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.Challenge{}).
				Where("id = ?", challenge.ID).
				Update("status", model.ChallengeCompleted).Error; err != nil {
				return err
			}
			if challenge.GoalID != nil {
				return s.GoalService.RecalculateProgress(tx, *challenge.GoalID)
			}
			return nil
		})
	} else {
		err = s.SubmissionRepo.UpdateFields(nil, id, fields)
	}
	if err != nil {
		return nil, err
	}

	return s.GetSubmissionByID(id, userID)
}

// AttachFile 记录提交的附件路径
func (s *SubmissionService) AttachFile(id, userID uint, path string) (*model.Submission, error) {
	if _, err := s.GetSubmissionByID(id, userID); err != nil {
		return nil, err
	}
	if err := s.SubmissionRepo.UpdateFields(nil, id, map[string]interface{}{"attachment": path}); err != nil {
		return nil, err
	}
	return s.GetSubmissionByID(id, userID)
}
