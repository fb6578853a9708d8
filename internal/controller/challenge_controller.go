package controller

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/repository"
	"code_quest_backend/internal/service"
	"code_quest_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeRepo  *repository.ChallengeRepository
	CompletedRepo  *repository.CompletedChallengeRepository
	GradingService *service.GradingService
}

func NewChallengeController(challengeRepo *repository.ChallengeRepository, completedRepo *repository.CompletedChallengeRepository, gradingService *service.GradingService) *ChallengeController {
	return &ChallengeController{
		ChallengeRepo:  challengeRepo,
		CompletedRepo:  completedRepo,
		GradingService: gradingService,
	}
}

// ChallengeSummary 列表页条目，Status 标记当前用户的完成情况
type ChallengeSummary struct {
	ID         uint             `json:"id"`
	Title      string           `json:"title"`
	Difficulty model.Difficulty `json:"difficulty"`
	Points     int              `json:"points"`
	Status     string           `json:"status"`
}

// ExampleCase 对外展示的非隐藏测试用例
type ExampleCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// ChallengeDetail 详情页视图。隐藏用例不出现在 ExampleCases 里，
// 只以数量形式体现
type ChallengeDetail struct {
	ID               uint             `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Difficulty       model.Difficulty `json:"difficulty"`
	Points           int              `json:"points"`
	AllowedLanguages []string         `json:"allowedLanguages"`
	StarterCode      string           `json:"starterCode"`
	ExampleCases     []ExampleCase    `json:"exampleCases"`
	HiddenCases      int              `json:"hiddenCases"`
}

// GetChallenges godoc
// @Summary 挑战列表
// @Description 全部挑战，并标记当前用户已通过的（SOLVED/TODO）
// @Tags 挑战
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]ChallengeSummary} "成功"
// @Router /api/challenges [get]
func (c *ChallengeController) GetChallenges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challenges, err := c.ChallengeRepo.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	solved, err := c.CompletedRepo.FindIDsByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	summaries := make([]ChallengeSummary, 0, len(challenges))
	for _, ch := range challenges {
		status := "TODO"
		if solved[ch.ID] {
			status = "SOLVED"
		}
		summaries = append(summaries, ChallengeSummary{
			ID:         ch.ID,
			Title:      ch.Title,
			Difficulty: ch.Difficulty,
			Points:     ch.Points,
			Status:     status,
		})
	}

	util.Success(ctx, summaries)
}

// GetChallenge godoc
// @Summary 挑战详情
// @Description 题面、允许语言和示例用例，隐藏用例只给数量
// @Tags 挑战
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "挑战ID"
// @Success 200 {object} util.Response{data=ChallengeDetail} "成功"
// @Failure 404 {object} util.Response "挑战不存在"
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的挑战ID")
		return
	}

	challenge, err := c.ChallengeRepo.FindByIDWithCases(id)
	if err != nil {
		util.NotFound(ctx, "挑战不存在")
		return
	}

	detail := ChallengeDetail{
		ID:               challenge.ID,
		Title:            challenge.Title,
		Description:      challenge.Description,
		Difficulty:       challenge.Difficulty,
		Points:           challenge.Points,
		AllowedLanguages: challenge.AllowedLanguages,
		StarterCode:      challenge.StarterCode,
		ExampleCases:     []ExampleCase{},
	}
	for _, tc := range challenge.TestCases {
		if tc.IsHidden {
			detail.HiddenCases++
			continue
		}
		detail.ExampleCases = append(detail.ExampleCases, ExampleCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}

	util.Success(ctx, detail)
}

// SubmitRequest 提交/试运行请求体
// swagger:model SubmitRequest
type SubmitRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// SubmitSolution godoc
// @Summary 提交解答
// @Description 评测代码并记录积分、连续天数和徽章
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "挑战ID"
// @Param   body body SubmitRequest true "提交内容"
// @Success 200 {object} util.Response{data=service.GradeResult} "评测完成"
// @Failure 400 {object} util.Response "语言不被该挑战允许"
// @Failure 404 {object} util.Response "挑战不存在"
// @Failure 503 {object} util.Response "执行服务不可用"
// @Router /api/challenges/{id}/submit [post]
func (c *ChallengeController) SubmitSolution(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的挑战ID")
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GradingService.Submit(ctx.Request.Context(), claims.UserID, id, req.Language, req.Code)
	if err != nil {
		respondGradingError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// RunCode godoc
// @Summary 试运行
// @Description 用挑战的测试用例评测代码，不落库不计分
// @Tags 挑战
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "挑战ID"
// @Param   body body SubmitRequest true "代码内容"
// @Success 200 {object} util.Response{data=service.GradeResult} "评测完成"
// @Failure 400 {object} util.Response "语言不被该挑战允许"
// @Failure 404 {object} util.Response "挑战不存在"
// @Failure 503 {object} util.Response "执行服务不可用"
// @Router /api/challenges/{id}/run [post]
func (c *ChallengeController) RunCode(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "无效的挑战ID")
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GradingService.RunCode(ctx.Request.Context(), id, req.Language, req.Code)
	if err != nil {
		respondGradingError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// respondGradingError 把评测相关的领域错误映射为 HTTP 状态码
func respondGradingError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrChallengeNotFound):
		util.NotFound(ctx, "挑战不存在")
	case errors.Is(err, util.ErrLanguageNotAllowed):
		util.BadRequest(ctx, "该挑战不允许使用此语言提交")
	case errors.Is(err, util.ErrUnsupportedLanguage):
		util.BadRequest(ctx, "执行服务不支持该语言")
	case errors.Is(err, util.ErrExecutionService):
		util.ServiceUnavailable(ctx, "代码执行服务暂不可用，请稍后再试")
	default:
		util.LogInternalError(ctx, err)
	}
}
