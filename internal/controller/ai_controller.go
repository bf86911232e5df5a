package controller

import (
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AIController 处理AI生成相关的API请求
type AIController struct {
	Generator service.ChallengeGenerator
}

func NewAIController(generator service.ChallengeGenerator) *AIController {
	return &AIController{Generator: generator}
}

// GenerateChallenge godoc
// @Summary AI生成挑战
// @Description 根据主题/难度/语言生成一个结构化的编程挑战
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GenerateChallengeRequest true "生成参数"
// @Success 200 {object} util.Response
// @Failure 502 {object} util.Response "上游服务失败"
// @Router /api/ai/generate-challenge [post]
func (c *AIController) GenerateChallenge(ctx *gin.Context) {
	var req service.GenerateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.Generator.GenerateChallenge(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, challenge)
}

// SubmitForFeedback godoc
// @Summary AI生成提交评语
// @Description 对一次提交内容生成结构化评语与建议分数
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GenerateFeedbackRequest true "评审参数"
// @Success 200 {object} util.Response
// @Failure 502 {object} util.Response "上游服务失败"
// @Router /api/ai/submit-for-feedback [post]
func (c *AIController) SubmitForFeedback(ctx *gin.Context) {
	var req service.GenerateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.Generator.GenerateFeedback(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, feedback)
}
