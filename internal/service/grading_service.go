package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/util"
	"code_quest_backend/pkg/logger"
	"code_quest_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CodeRunner 代码执行后端的抽象，便于测试时替换
type CodeRunner interface {
	Execute(ctx context.Context, language, code, stdin string) (*RunResult, error)
}

// 评测编排的协作方都收窄成单方法接口，测试时用手写假实现替换

type ChallengeStore interface {
	FindByIDWithCases(id uint) (*model.Challenge, error)
}

type SubmissionRecorder interface {
	Create(submission *model.Submission) error
}

type ProgressionApplier interface {
	RequiresDailyChallenge() bool
	ApplyPass(userID uint, challenge *model.Challenge, isDailyToday bool) (*ProgressionDelta, error)
}

type BadgeAwarder interface {
	EvaluateBadges(userID uint) ([]model.Badge, error)
}

type DailyChecker interface {
	IsTodaysChallenge(ctx context.Context, challengeID uint) (bool, error)
}

// TestCaseResult 单个测试用例的评测结果。
// 隐藏用例的输入和期望输出在构造时就已脱敏，不会流出本包
type TestCaseResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	IsHidden bool   `json:"isHidden"`
}

// GradeResult 一次评测的完整结果
type GradeResult struct {
	Status         model.SubmissionStatus `json:"status"`
	Results        []TestCaseResult       `json:"results"`
	PassedCases    int                    `json:"passedCases"`
	TotalCases     int                    `json:"totalCases"`
	PointsEarned   int                    `json:"pointsEarned"`
	FirstTimeSolve bool                   `json:"firstTimeSolve"`
	CurrentStreak  int                    `json:"currentStreak"`
	NewBadges      []model.Badge          `json:"newBadges"`
}

// GradingService 评测引擎：跑用例、比对输出、编排进度与徽章
type GradingService struct {
	Runner         CodeRunner
	ChallengeRepo  ChallengeStore
	SubmissionRepo SubmissionRecorder
	Progression    ProgressionApplier
	Badges         BadgeAwarder
	Daily          DailyChecker
}

func NewGradingService(
	runner CodeRunner,
	challengeRepo ChallengeStore,
	submissionRepo SubmissionRecorder,
	progression ProgressionApplier,
	badges BadgeAwarder,
	daily DailyChecker,
) *GradingService {
	return &GradingService{
		Runner:         runner,
		ChallengeRepo:  challengeRepo,
		SubmissionRepo: submissionRepo,
		Progression:    progression,
		Badges:         badges,
		Daily:          daily,
	}
}

// compareOutput 比对一次运行和期望输出。
// stderr 非空直接判失败，展示值取 stderr；否则两边去首尾空白后精确比较
func compareOutput(stdout, stderr, expected string) (passed bool, actual string) {
	if stderr != "" {
		return false, stderr
	}
	actual = strings.TrimSpace(stdout)
	return actual == strings.TrimSpace(expected), actual
}

// grade 按定义顺序逐个执行测试用例。
// 语言不在挑战允许列表时不发起任何执行调用；执行服务故障时整体中止，
// 已得到的部分结果全部丢弃
func (s *GradingService) grade(ctx context.Context, challenge *model.Challenge, language, code string) ([]TestCaseResult, int, error) {
	if !challenge.AllowsLanguage(language) {
		return nil, 0, fmt.Errorf("%s: %w", language, util.ErrLanguageNotAllowed)
	}

	results := make([]TestCaseResult, 0, len(challenge.TestCases))
	passedCount := 0

	for _, tc := range challenge.TestCases {
		run, err := s.Runner.Execute(ctx, language, code, tc.Input)
		if err != nil {
			return nil, 0, err
		}

		passed, actual := compareOutput(run.Stdout, run.Stderr, tc.ExpectedOutput)
		if passed {
			passedCount++
		}

		result := TestCaseResult{
			Input:    tc.Input,
			Expected: tc.ExpectedOutput,
			Actual:   actual,
			Passed:   passed,
			IsHidden: tc.IsHidden,
		}
		if tc.IsHidden {
			result.Input = util.HiddenMarker
			result.Expected = util.HiddenMarker
		}
		results = append(results, result)
	}

	return results, passedCount, nil
}

// RunCode 试运行：与正式提交走同一套评测，但不落库、不计分
func (s *GradingService) RunCode(ctx context.Context, challengeID uint, language, code string) (*GradeResult, error) {
	challenge, err := s.ChallengeRepo.FindByIDWithCases(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	results, passedCount, err := s.grade(ctx, challenge, language, code)
	if err != nil {
		if errors.Is(err, util.ErrExecutionService) {
			monitoring.RunnerErrorCounter.Inc()
		}
		return nil, err
	}

	return &GradeResult{
		Status:      verdict(passedCount, len(results)),
		Results:     results,
		PassedCases: passedCount,
		TotalCases:  len(results),
		NewBadges:   []model.Badge{},
	}, nil
}

// Submit 正式提交：评测、记进度、发徽章、写审计记录。
// 评测失败（执行服务不可用）时不产生任何持久化副作用；
// 进度写入失败只记日志，评测结论仍然返回给用户
func (s *GradingService) Submit(ctx context.Context, userID, challengeID uint, language, code string) (*GradeResult, error) {
	challenge, err := s.ChallengeRepo.FindByIDWithCases(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	results, passedCount, err := s.grade(ctx, challenge, language, code)
	if err != nil {
		if errors.Is(err, util.ErrExecutionService) {
			monitoring.RunnerErrorCounter.Inc()
		}
		return nil, err
	}

	grade := &GradeResult{
		Status:      verdict(passedCount, len(results)),
		Results:     results,
		PassedCases: passedCount,
		TotalCases:  len(results),
		NewBadges:   []model.Badge{},
	}

	if grade.Status == model.SubmissionPassed {
		// 只有「仅每日一题推进 streak」的口径才需要知道这题是不是今天的题
		isDailyToday := false
		if s.Progression.RequiresDailyChallenge() {
			var derr error
			isDailyToday, derr = s.Daily.IsTodaysChallenge(ctx, challengeID)
			if derr != nil {
				logger.Log.Warn("每日挑战查询失败，按非每日挑战处理",
					zap.Uint("challengeId", challengeID),
					zap.Error(derr))
				isDailyToday = false
			}
		}

		delta, perr := s.Progression.ApplyPass(userID, challenge, isDailyToday)
		if perr != nil {
			logger.Log.Error("进度写入失败，评测结论照常返回",
				zap.Uint("userId", userID),
				zap.Uint("challengeId", challengeID),
				zap.Error(perr))
		} else {
			grade.PointsEarned = delta.PointsAwarded
			grade.FirstTimeSolve = delta.FirstTimeSolve
			grade.CurrentStreak = delta.CurrentStreak

			newBadges, berr := s.Badges.EvaluateBadges(userID)
			if berr != nil {
				logger.Log.Error("徽章评估失败",
					zap.Uint("userId", userID),
					zap.Error(berr))
			} else {
				grade.NewBadges = newBadges
			}
		}
	}

	submission := &model.Submission{
		UserID:       userID,
		ChallengeID:  challengeID,
		Language:     language,
		Code:         code,
		Status:       grade.Status,
		PassedCases:  grade.PassedCases,
		TotalCases:   grade.TotalCases,
		PointsEarned: grade.PointsEarned,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		logger.Log.Error("提交记录写入失败",
			zap.Uint("userId", userID),
			zap.Uint("challengeId", challengeID),
			zap.Error(err))
	}

	monitoring.SubmissionCounter.WithLabelValues(string(grade.Status)).Inc()

	return grade, nil
}

// verdict 全部用例通过才算 PASSED，空用例列表视为通过
func verdict(passedCount, total int) model.SubmissionStatus {
	if passedCount == total {
		return model.SubmissionPassed
	}
	return model.SubmissionFailed
}
