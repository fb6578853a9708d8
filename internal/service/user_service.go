package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/repository"
	"code_quest_backend/internal/util"
	"code_quest_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardKeyPrefix = "leaderboard:"
	leaderboardCacheTTL  = 30 * time.Second
)

// UserProfile 个人主页聚合视图
type UserProfile struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Role           model.UserRole `json:"role"`
	Points         int            `json:"points"`
	CurrentStreak  int            `json:"currentStreak"`
	LongestStreak  int            `json:"longestStreak"`
	LastSolvedDate *time.Time     `json:"lastSolvedDate,omitempty"`
	SolvedTotal    int            `json:"solvedTotal"`
	Badges         []model.Badge  `json:"badges"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	CurrentStreak int    `json:"currentStreak"`
}

type UserService struct {
	UserRepo      *repository.UserRepository
	CompletedRepo *repository.CompletedChallengeRepository
	BadgeRepo     *repository.BadgeRepository
	Redis         *redis.Client
}

func NewUserService(userRepo *repository.UserRepository, completedRepo *repository.CompletedChallengeRepository, badgeRepo *repository.BadgeRepository, rdb *redis.Client) *UserService {
	return &UserService{
		UserRepo:      userRepo,
		CompletedRepo: completedRepo,
		BadgeRepo:     badgeRepo,
		Redis:         rdb,
	}
}

// GetProfile 聚合用户基础信息、解题统计和徽章
func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	solvedTotal, err := s.CompletedRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.BadgeRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		Points:         user.Points,
		CurrentStreak:  user.CurrentStreak,
		LongestStreak:  user.LongestStreak,
		LastSolvedDate: user.LastSolvedDate,
		SolvedTotal:    int(solvedTotal),
		Badges:         badges,
	}, nil
}

// GetLeaderboard 按积分降序取前 limit 名，结果短缓存以抗热点读
func (s *UserService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByPoints(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:          i + 1,
			Name:          user.Name,
			Points:        user.Points,
			CurrentStreak: user.CurrentStreak,
		})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("排行榜缓存写入失败", zap.Error(err))
			}
		}
	}

	return entries, nil
}
