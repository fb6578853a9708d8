package repository

import (
	"code_quest_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

// FindByIDWithCases 读取挑战及其测试用例，用例按存储顺序返回
func (r *ChallengeRepository) FindByIDWithCases(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Preload("TestCases", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC, id ASC")
	}).First(&challenge, id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// List 列表页只取轻量字段，不带测试用例
func (r *ChallengeRepository) List() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Select("id", "title", "difficulty", "points", "created_at").
		Order("created_at DESC").
		Find(&challenges).Error
	return challenges, err
}

// FindRandomByDifficulties 随机抽一道指定难度的挑战，用于每日一题
func (r *ChallengeRepository) FindRandomByDifficulties(difficulties []model.Difficulty) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("difficulty IN ?", difficulties).
		Order("RAND()").
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}
