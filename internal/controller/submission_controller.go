package controller

import (
	"fmt"
	"path/filepath"
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionController 处理挑战提交的API请求
type SubmissionController struct {
	SubmissionService *service.SubmissionService
	StorageService    *service.StorageService
}

func NewSubmissionController(submissionService *service.SubmissionService, storageService *service.StorageService) *SubmissionController {
	return &SubmissionController{
		SubmissionService: submissionService,
		StorageService:    storageService,
	}
}

// CreateSubmission godoc
// @Summary 创建提交
// @Description 对挑战提交一次作答，初始状态为pending
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param submission body service.CreateSubmissionRequest true "提交信息"
// @Success 201 {object} util.Response
// @Router /api/submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.CreateSubmission(user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// ListSubmissions godoc
// @Summary 获取提交列表
// @Description 获取当前用户的提交，支持按挑战/状态过滤
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param challengeId query int false "挑战ID"
// @Param status query string false "状态" enums(pending,completed,rejected)
// @Success 200 {object} util.Response
// @Router /api/submissions [get]
func (c *SubmissionController) ListSubmissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	filter := repository.SubmissionFilter{
		Status: model.SubmissionStatus(strings.ToLower(ctx.Query("status"))),
	}
	if v := ctx.Query("challengeId"); v != "" {
		challengeID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "Invalid challenge ID")
			return
		}
		id := uint(challengeID)
		filter.ChallengeID = &id
	}

	submissions, err := c.SubmissionService.ListSubmissions(user.UserID, filter)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

// GetSubmissionByID godoc
// @Summary 获取特定ID的提交
// @Description 仅提交属主可访问
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) GetSubmissionByID(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid submission ID")
		return
	}

	submission, err := c.SubmissionService.GetSubmissionByID(uint(id), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// UpdateSubmission godoc
// @Summary 更新提交
// @Description 部分更新；状态进入终态时自动记录评审时间，completed时同步重算目标进度
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Param submission body service.UpdateSubmissionRequest true "提交更新信息"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id} [put]
func (c *SubmissionController) UpdateSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid submission ID")
		return
	}

	var req service.UpdateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.SubmissionService.UpdateSubmission(uint(id), user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// UploadAttachment godoc
// @Summary 上传提交附件
// @Tags 提交
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Param file formData file true "附件"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id}/attachment [post]
func (c *SubmissionController) UploadAttachment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid submission ID")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if file.Size > 10<<20 {
		util.BadRequest(ctx, "file too large (max 10MB)")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("submissions/%d/%d_%s%s",
		user.UserID, time.Now().Unix(), uuid.New().String()[:8], filepath.Ext(file.Filename))

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	submission, err := c.SubmissionService.AttachFile(uint(id), user.UserID, url)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}
