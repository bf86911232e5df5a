package controller

import (
	"skillforge_backend/internal/model"
	"skillforge_backend/internal/repository"
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ChallengeController 处理挑战的API请求
type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

// ListChallenges godoc
// @Summary 获取挑战列表
// @Description 支持按目标/分类/难度/启用状态/关键词/标签过滤，分页返回
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param goalId query int false "目标ID"
// @Param category query string false "分类"
// @Param difficulty query string false "难度" enums(easy,medium,hard,expert)
// @Param active query bool false "是否启用"
// @Param search query string false "标题/描述关键词"
// @Param tags query string false "标签，逗号分隔，取交集"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	filter := repository.ChallengeFilter{
		Category:   ctx.Query("category"),
		Difficulty: model.DifficultyLevel(strings.ToLower(ctx.Query("difficulty"))),
		Search:     ctx.Query("search"),
	}

	if v := ctx.Query("goalId"); v != "" {
		goalID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "Invalid goal ID")
			return
		}
		id := uint(goalID)
		filter.GoalID = &id
	}
	if v := ctx.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			util.BadRequest(ctx, "Invalid active flag")
			return
		}
		filter.IsActive = &active
	}
	if v := ctx.Query("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	challenges, total, err := c.ChallengeService.ListChallenges(filter)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  challenges,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// CreateChallenge godoc
// @Summary 创建挑战
// @Tags 挑战
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param challenge body service.CreateChallengeRequest true "挑战信息"
// @Success 201 {object} util.Response
// @Router /api/challenges [post]
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	var req service.CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.CreateChallenge(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, challenge)
}

// GetChallengeByID godoc
// @Summary 获取特定ID的挑战
// @Description 返回挑战详情及综合难度评分
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallengeByID(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid challenge ID")
		return
	}

	challenge, err := c.ChallengeService.GetChallengeByID(uint(id))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"challenge":       challenge,
		"tags":            challenge.TagList(),
		"difficultyScore": c.ChallengeService.CalculateDifficulty(challenge),
	})
}

// UpdateChallenge godoc
// @Summary 更新挑战
// @Description 部分更新，未提供的字段保持原值；状态变为completed时重算所属目标进度
// @Tags 挑战
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Param challenge body service.UpdateChallengeRequest true "挑战更新信息"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id} [put]
func (c *ChallengeController) UpdateChallenge(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid challenge ID")
		return
	}

	var req service.UpdateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.UpdateChallenge(uint(id), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, challenge)
}

// DeleteChallenge godoc
// @Summary 删除挑战
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id} [delete]
func (c *ChallengeController) DeleteChallenge(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid challenge ID")
		return
	}

	if err := c.ChallengeService.DeleteChallenge(uint(id)); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Challenge deleted successfully"})
}
