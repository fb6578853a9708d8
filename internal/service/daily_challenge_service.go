package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/repository"
	"code_quest_backend/internal/util"
	"code_quest_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dailyChallengeKeyPrefix = "daily_challenge:"

// DailyChallengeService 每日一题：首次访问时惰性生成，当天内保持稳定
type DailyChallengeService struct {
	DailyRepo     *repository.DailyChallengeRepository
	ChallengeRepo *repository.ChallengeRepository
	Redis         *redis.Client
}

func NewDailyChallengeService(dailyRepo *repository.DailyChallengeRepository, challengeRepo *repository.ChallengeRepository, rdb *redis.Client) *DailyChallengeService {
	return &DailyChallengeService{
		DailyRepo:     dailyRepo,
		ChallengeRepo: challengeRepo,
		Redis:         rdb,
	}
}

// TodayChallengeID 返回今天的每日挑战ID。当天还没有记录时从
// EASY/MEDIUM 题库随机抽一道并落库；并发生成冲突时以先写入者为准
func (s *DailyChallengeService) TodayChallengeID(ctx context.Context) (uint, error) {
	now := time.Now()
	date := now.Format(util.DateFormat)
	cacheKey := dailyChallengeKeyPrefix + date

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Uint64(); err == nil {
			return uint(cached), nil
		}
	}

	daily, err := s.DailyRepo.FindByDate(date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		daily, err = s.rollToday(date)
	}
	if err != nil {
		return 0, err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, cacheKey, uint64(daily.ChallengeID), ttlUntilMidnight(now)).Err(); err != nil {
			logger.Log.Warn("每日挑战缓存写入失败", zap.Error(err))
		}
	}

	return daily.ChallengeID, nil
}

func (s *DailyChallengeService) rollToday(date string) (*model.DailyChallenge, error) {
	challenge, err := s.ChallengeRepo.FindRandomByDifficulties([]model.Difficulty{
		model.DifficultyEasy,
		model.DifficultyMedium,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoChallengesAvailable
	}
	if err != nil {
		return nil, err
	}

	daily := &model.DailyChallenge{
		Date:        date,
		ChallengeID: challenge.ID,
	}
	if err := s.DailyRepo.Create(daily); err != nil {
		// date 唯一索引冲突：另一请求先生成了，重读即可
		existing, rerr := s.DailyRepo.FindByDate(date)
		if rerr != nil {
			return nil, fmt.Errorf("create daily challenge: %v, reread: %w", err, rerr)
		}
		return existing, nil
	}

	logger.Log.Info("生成今日每日挑战",
		zap.String("date", date),
		zap.Uint("challengeId", challenge.ID))
	return daily, nil
}

// IsTodaysChallenge 判断指定挑战是否为今天的每日挑战
func (s *DailyChallengeService) IsTodaysChallenge(ctx context.Context, challengeID uint) (bool, error) {
	todayID, err := s.TodayChallengeID(ctx)
	if err != nil {
		return false, err
	}
	return todayID == challengeID, nil
}

// ttlUntilMidnight 缓存存活到本地时区的次日零点
func ttlUntilMidnight(now time.Time) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
