package controller

import (
	"encoding/json"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PeerReviewController 处理互评的API请求
type PeerReviewController struct {
	PeerReviewService *service.PeerReviewService
}

func NewPeerReviewController(peerReviewService *service.PeerReviewService) *PeerReviewController {
	return &PeerReviewController{PeerReviewService: peerReviewService}
}

// AssignReview godoc
// @Summary 指派评审
// @Description 为当前用户创建一条待完成的评审任务
// @Tags 互评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param review body service.PeerReviewRequest true "评审信息"
// @Success 201 {object} util.Response
// @Router /api/peer-reviews/assign [post]
func (c *PeerReviewController) AssignReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PeerReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.PeerReviewService.AssignReview(user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, review)
}

// SubmitReview godoc
// @Summary 提交评审
// @Description 直接提交一条已完成的评审，评分必填
// @Tags 互评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param review body service.PeerReviewRequest true "评审信息"
// @Success 201 {object} util.Response
// @Router /api/peer-reviews [post]
func (c *PeerReviewController) SubmitReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PeerReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.PeerReviewService.SubmitReview(user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, review)
}

// CompleteReviewRequest 完成评审的请求结构
type CompleteReviewRequest struct {
	ReviewText     string          `json:"reviewText"`
	Rating         int             `json:"rating" binding:"required"`
	CriteriaScores json.RawMessage `json:"criteriaScores"`
}

// CompleteReview godoc
// @Summary 完成已指派的评审
// @Tags 互评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评审ID"
// @Param review body CompleteReviewRequest true "评审结果"
// @Success 200 {object} util.Response
// @Router /api/peer-reviews/{id}/complete [post]
func (c *PeerReviewController) CompleteReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid review ID")
		return
	}

	var req CompleteReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.PeerReviewService.CompleteReview(user.UserID, uint(id), req.ReviewText, req.Rating, req.CriteriaScores)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, review)
}

// ListPending godoc
// @Summary 待处理评审列表
// @Description 当前用户被指派且未完成的评审，先进先出
// @Tags 互评
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/peer-reviews/pending [get]
func (c *PeerReviewController) ListPending(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	reviews, err := c.PeerReviewService.ListPending(user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, reviews)
}

// ListReceived godoc
// @Summary 收到的评审列表
// @Tags 互评
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/peer-reviews/received [get]
func (c *PeerReviewController) ListReceived(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	reviews, err := c.PeerReviewService.ListReceived(user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, reviews)
}

// ListGiven godoc
// @Summary 给出的评审列表
// @Tags 互评
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/peer-reviews/given [get]
func (c *PeerReviewController) ListGiven(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	reviews, err := c.PeerReviewService.ListByReviewer(user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, reviews)
}
