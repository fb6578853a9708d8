package controller

import (
	"code_quest_backend/internal/service"
	"code_quest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// GetCatalog godoc
// @Summary 徽章目录
// @Description 全部可获得的徽章及其达成条件
// @Tags 徽章
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Badge} "成功"
// @Router /api/badges [get]
func (c *BadgeController) GetCatalog(ctx *gin.Context) {
	badges, err := c.BadgeService.GetCatalog()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// GetMyBadges godoc
// @Summary 我的徽章
// @Description 当前用户已获得的徽章
// @Tags 徽章
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Badge} "成功"
// @Router /api/badges/mine [get]
func (c *BadgeController) GetMyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.BadgeService.GetUserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}
