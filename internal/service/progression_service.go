package service

import (
	"code_quest_backend/internal/config"
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/repository"
	"code_quest_backend/internal/util"
	"code_quest_backend/pkg/logger"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 同一用户并发提交冲突时的有界重试次数
const progressionRetries = 3

// ProgressionDelta 一次通过对用户账本产生的增量
type ProgressionDelta struct {
	PointsAwarded  int  `json:"pointsAwarded"`
	FirstTimeSolve bool `json:"firstTimeSolve"`
	StreakChanged  bool `json:"streakChanged"`
	CurrentStreak  int  `json:"currentStreak"`
}

// ProgressionService 用户进度账本：积分、已完成集合、连续解题天数。
// 所有写入在单个事务内完成，以用户行锁串行化并发提交
type ProgressionService struct {
	DB            *gorm.DB
	UserRepo      *repository.UserRepository
	CompletedRepo *repository.CompletedChallengeRepository
	dailyOnly     bool
}

func NewProgressionService(db *gorm.DB, userRepo *repository.UserRepository, completedRepo *repository.CompletedChallengeRepository, streakCfg config.StreakConfig) *ProgressionService {
	return &ProgressionService{
		DB:            db,
		UserRepo:      userRepo,
		CompletedRepo: completedRepo,
		dailyOnly:     streakCfg.DailyChallengeOnly,
	}
}

// RequiresDailyChallenge 报告 streak 口径是否只认当天的每日一题
func (s *ProgressionService) RequiresDailyChallenge() bool {
	return s.dailyOnly
}

// ApplyPass 记录一次通过。积分只在首次通过该挑战时发放，
// streak 是否推进取决于配置的口径。事务冲突有界重试，
// 重试耗尽后返回 util.ErrProgressionConflict
func (s *ProgressionService) ApplyPass(userID uint, challenge *model.Challenge, isDailyToday bool) (*ProgressionDelta, error) {
	var lastErr error
	for attempt := 1; attempt <= progressionRetries; attempt++ {
		delta, err := s.applyOnce(userID, challenge, isDailyToday)
		if err == nil {
			return delta, nil
		}
		if !isRetryableConflict(err) {
			return nil, err
		}
		lastErr = err
		logger.Log.Warn("进度事务冲突，准备重试",
			zap.Uint("userId", userID),
			zap.Uint("challengeId", challenge.ID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, fmt.Errorf("%w: %v", util.ErrProgressionConflict, lastErr)
}

func (s *ProgressionService) applyOnce(userID uint, challenge *model.Challenge, isDailyToday bool) (*ProgressionDelta, error) {
	delta := &ProgressionDelta{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := s.UserRepo.FindByIDForUpdate(tx, userID)
		if err != nil {
			return err
		}

		firstTime, err := s.CompletedRepo.AddIfAbsent(tx, userID, challenge.ID)
		if err != nil {
			return err
		}
		delta.FirstTimeSolve = firstTime

		if firstTime {
			if err := s.UserRepo.AddPoints(tx, userID, challenge.Points); err != nil {
				return err
			}
			delta.PointsAwarded = challenge.Points
		}

		if !s.dailyOnly || isDailyToday {
			if advanceStreak(user, time.Now()) {
				if err := s.UserRepo.UpdateStreak(tx, user); err != nil {
					return err
				}
				delta.StreakChanged = true
			}
		}
		delta.CurrentStreak = user.CurrentStreak

		return nil
	})
	if err != nil {
		return nil, err
	}
	return delta, nil
}

// advanceStreak 按自然日推进连续解题天数，就地修改 user 并报告是否有变化。
// 同一天内的后续通过不改变任何字段；昨天有记录则加一，否则重置为 1。
// longestStreak 只增不减
func advanceStreak(user *model.User, now time.Time) bool {
	today := startOfDay(now)

	if user.LastSolvedDate != nil && startOfDay(*user.LastSolvedDate).Equal(today) {
		return false
	}

	if user.LastSolvedDate != nil && startOfDay(*user.LastSolvedDate).Equal(today.AddDate(0, 0, -1)) {
		user.CurrentStreak++
	} else {
		user.CurrentStreak = 1
	}

	if user.CurrentStreak > user.LongestStreak {
		user.LongestStreak = user.CurrentStreak
	}
	user.LastSolvedDate = &today
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isRetryableConflict 识别值得重试的存储层冲突（MySQL 死锁/锁等待超时）
func isRetryableConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock") || strings.Contains(msg, "Lock wait timeout")
}
