package controller

import (
	"code_quest_backend/internal/repository"
	"code_quest_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultSubmissionLimit = 20

type SubmissionController struct {
	SubmissionRepo *repository.SubmissionRepository
}

func NewSubmissionController(submissionRepo *repository.SubmissionRepository) *SubmissionController {
	return &SubmissionController{SubmissionRepo: submissionRepo}
}

// GetMySubmissions godoc
// @Summary 我的提交记录
// @Description 当前用户的提交历史，按时间倒序，可按挑战过滤
// @Tags 提交
// @Produce  json
// @Security BearerAuth
// @Param   challengeId query int false "只看某个挑战的提交"
// @Param   limit query int false "条数上限，默认20"
// @Success 200 {object} util.Response{data=[]model.Submission} "成功"
// @Router /api/submissions [get]
func (c *SubmissionController) GetMySubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := defaultSubmissionLimit
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	if raw := ctx.Query("challengeId"); raw != "" {
		challengeID, err := util.ParseUint(raw)
		if err != nil {
			util.BadRequest(ctx, "无效的挑战ID")
			return
		}
		submissions, err := c.SubmissionRepo.FindByUserAndChallenge(claims.UserID, challengeID, limit)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, submissions)
		return
	}

	submissions, err := c.SubmissionRepo.FindByUser(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}
