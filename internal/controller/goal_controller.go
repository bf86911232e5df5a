package controller

import (
	"skillforge_backend/internal/service"
	"skillforge_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GoalController 处理学习目标的API请求
type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// ListGoals godoc
// @Summary 获取学习目标列表
// @Description 获取当前用户的学习目标，支持按分类/难度/完成状态过滤
// @Tags 学习目标
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "分类"
// @Param difficulty query string false "难度" enums(easy,medium,hard,expert)
// @Param completed query bool false "是否已完成"
// @Success 200 {object} util.Response
// @Router /api/goals [get]
func (c *GoalController) ListGoals(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	filter := service.GoalListFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
	}
	if v := ctx.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			util.BadRequest(ctx, "Invalid completed flag")
			return
		}
		filter.IsCompleted = &completed
	}

	goals, err := c.GoalService.ListGoals(user.UserID, filter)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, goals)
}

// CreateGoal godoc
// @Summary 创建学习目标
// @Tags 学习目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param goal body service.CreateGoalRequest true "学习目标信息"
// @Success 201 {object} util.Response
// @Router /api/goals [post]
func (c *GoalController) CreateGoal(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.CreateGoal(user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, goal)
}

// GetGoalByID godoc
// @Summary 获取特定ID的学习目标
// @Tags 学习目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Success 200 {object} util.Response
// @Router /api/goals/{id} [get]
func (c *GoalController) GetGoalByID(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	goalID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid goal ID")
		return
	}

	goal, err := c.GoalService.GetGoalByID(user.UserID, uint(goalID))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

// UpdateGoal godoc
// @Summary 更新学习目标
// @Description 部分更新，未提供的字段保持原值
// @Tags 学习目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Param goal body service.UpdateGoalRequest true "学习目标更新信息"
// @Success 200 {object} util.Response
// @Router /api/goals/{id} [put]
func (c *GoalController) UpdateGoal(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	goalID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid goal ID")
		return
	}

	var req service.UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.UpdateGoal(user.UserID, uint(goalID), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

// DeleteGoal godoc
// @Summary 删除学习目标
// @Description 级联删除目标下的挑战及其提交
// @Tags 学习目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Success 200 {object} util.Response
// @Router /api/goals/{id} [delete]
func (c *GoalController) DeleteGoal(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	goalID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid goal ID")
		return
	}

	if err := c.GoalService.DeleteGoal(user.UserID, uint(goalID)); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Goal deleted successfully"})
}
