package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/repository"
	"code_quest_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// badgeStats 徽章判定用到的用户统计快照
type badgeStats struct {
	Points        int
	SolvedTotal   int
	CurrentStreak int
}

// badgeEligible 判断单个徽章的达标条件，阈值为达到即满足
func badgeEligible(badge model.Badge, stats badgeStats) bool {
	switch badge.CriteriaType {
	case model.CriteriaPoints:
		return stats.Points >= badge.CriteriaValue
	case model.CriteriaSolvedTotal:
		return stats.SolvedTotal >= badge.CriteriaValue
	case model.CriteriaStreak:
		return stats.CurrentStreak >= badge.CriteriaValue
	default:
		// 未知判定类型一律不达标，等目录数据修正
		return false
	}
}

// BadgeService 徽章目录与授予
type BadgeService struct {
	DB            *gorm.DB
	BadgeRepo     *repository.BadgeRepository
	UserRepo      *repository.UserRepository
	CompletedRepo *repository.CompletedChallengeRepository
}

func NewBadgeService(db *gorm.DB, badgeRepo *repository.BadgeRepository, userRepo *repository.UserRepository, completedRepo *repository.CompletedChallengeRepository) *BadgeService {
	return &BadgeService{
		DB:            db,
		BadgeRepo:     badgeRepo,
		UserRepo:      userRepo,
		CompletedRepo: completedRepo,
	}
}

// EvaluateBadges 按目录顺序扫描全部徽章，授予新达标且未持有的。
// 返回本次新授予的徽章列表（可能为空，不为 nil）；重复评估是幂等的
func (s *BadgeService) EvaluateBadges(userID uint) ([]model.Badge, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	solvedTotal, err := s.CompletedRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.BadgeRepo.FindIDsByUser(userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.BadgeRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}

	stats := badgeStats{
		Points:        user.Points,
		SolvedTotal:   int(solvedTotal),
		CurrentStreak: user.CurrentStreak,
	}

	newBadges := []model.Badge{}
	for _, badge := range catalog {
		if owned[badge.ID] {
			continue
		}
		if badgeEligible(badge, stats) {
			newBadges = append(newBadges, badge)
		}
	}

	if len(newBadges) == 0 {
		return newBadges, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, badge := range newBadges {
			if err := s.BadgeRepo.Award(tx, userID, badge.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.BadgeAwardCounter.Add(float64(len(newBadges)))
	return newBadges, nil
}

// GetCatalog 徽章目录，按展示顺序
func (s *BadgeService) GetCatalog() ([]model.Badge, error) {
	return s.BadgeRepo.FindAllOrdered()
}

// GetUserBadges 用户已获得的徽章
func (s *BadgeService) GetUserBadges(userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.FindByUser(userID)
}
