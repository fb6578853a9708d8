package controller

import (
	"code_quest_backend/internal/repository"
	"code_quest_backend/internal/service"
	"code_quest_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type DailyChallengeController struct {
	DailyService  *service.DailyChallengeService
	ChallengeRepo *repository.ChallengeRepository
}

func NewDailyChallengeController(dailyService *service.DailyChallengeService, challengeRepo *repository.ChallengeRepository) *DailyChallengeController {
	return &DailyChallengeController{
		DailyService:  dailyService,
		ChallengeRepo: challengeRepo,
	}
}

// GetDailyChallenge godoc
// @Summary 每日挑战
// @Description 今天的每日挑战，首次访问时生成，当天内保持不变
// @Tags 挑战
// @Produce  json
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "题库为空"
// @Router /api/daily-challenge [get]
func (c *DailyChallengeController) GetDailyChallenge(ctx *gin.Context) {
	challengeID, err := c.DailyService.TodayChallengeID(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, util.ErrNoChallengesAvailable) {
			util.NotFound(ctx, "暂无可用挑战")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	challenge, err := c.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"id":         challenge.ID,
		"title":      challenge.Title,
		"difficulty": challenge.Difficulty,
		"points":     challenge.Points,
	})
}
