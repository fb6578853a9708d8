package database

import (
	"code_quest_backend/internal/config"
	"code_quest_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不迁移，除非显式带 -migrate / -migrate-only 启动
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Challenge{},
			&model.TestCase{},
			&model.Submission{},
			&model.Badge{},
			&model.UserBadge{},
			&model.CompletedChallenge{},
			&model.DailyChallenge{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		if err := seedBadges(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// seedBadges 初始化徽章目录。目录对评测核心只读，按 SortOrder 定序
func seedBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaultBadges := []model.Badge{
		{Name: "Rising Star", Description: "Reach 200 points", Icon: "Star", Color: "text-orange-400", CriteriaType: model.CriteriaPoints, CriteriaValue: 200, SortOrder: 1},
		{Name: "Code Warrior", Description: "Reach 350 points", Icon: "Sword", Color: "text-slate-400", CriteriaType: model.CriteriaPoints, CriteriaValue: 350, SortOrder: 2},
		{Name: "Grandmaster", Description: "Reach 500 points", Icon: "Crown", Color: "text-yellow-400", CriteriaType: model.CriteriaPoints, CriteriaValue: 500, SortOrder: 3},
		{Name: "Problem Solver I", Description: "Solve 10 challenges", Icon: "Hammer", Color: "text-green-400", CriteriaType: model.CriteriaSolvedTotal, CriteriaValue: 10, SortOrder: 4},
		{Name: "Problem Solver II", Description: "Solve 25 challenges", Icon: "Axe", Color: "text-emerald-400", CriteriaType: model.CriteriaSolvedTotal, CriteriaValue: 25, SortOrder: 5},
		{Name: "Weekly Warrior", Description: "Maintain a 7-day streak", Icon: "Flame", Color: "text-red-500", CriteriaType: model.CriteriaStreak, CriteriaValue: 7, SortOrder: 6},
	}

	for _, b := range defaultBadges {
		if err := db.Create(&b).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d badges", len(defaultBadges))
	return nil
}
