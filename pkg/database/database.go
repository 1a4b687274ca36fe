package database

import (
	"fmt"
	"log"

	"kiongozi_backend/internal/config"
	"kiongozi_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.XPEvent{},
			&model.Course{},
			&model.CourseModule{},
			&model.Module{},
			&model.Enrollment{},
			&model.Progress{},
			&model.Badge{},
			&model.UserBadge{},
			&model.Quiz{},
			&model.QuizQuestion{},
			&model.QuizOption{},
			&model.QuizAttempt{},
			&model.Certificate{},
			&model.Event{},
			&model.EventAttendance{},
			&model.Post{},
			&model.Comment{},
			&model.ChatMessage{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		seedBadges(db)
	}

	return db, nil
}

// seedBadges 默认徽章目录（为空时插入）
func seedBadges(db *gorm.DB) {
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count != 0 {
		return
	}

	defaultBadges := []model.Badge{
		{Code: "first_steps", Name: "初来乍到", Description: "完成第一个学习模块", Icon: "🌱", CriteriaType: model.CriteriaModulesCompleted, Threshold: 1, Enabled: true},
		{Code: "bookworm", Name: "勤学不辍", Description: "完成10个学习模块", Icon: "📚", CriteriaType: model.CriteriaModulesCompleted, Threshold: 10, Enabled: true},
		{Code: "scholar", Name: "学有所成", Description: "完成50个学习模块", Icon: "🎓", CriteriaType: model.CriteriaModulesCompleted, Threshold: 50, Enabled: true},
		{Code: "on_fire", Name: "连续三天", Description: "连续学习3天", Icon: "🔥", CriteriaType: model.CriteriaStreakDays, Threshold: 3, Enabled: true},
		{Code: "unstoppable", Name: "七日不断", Description: "连续学习7天", Icon: "⚡", CriteriaType: model.CriteriaStreakDays, Threshold: 7, Enabled: true},
		{Code: "iron_will", Name: "月度坚持", Description: "连续学习30天", Icon: "🏔️", CriteriaType: model.CriteriaStreakDays, Threshold: 30, Enabled: true},
		{Code: "quiz_rookie", Name: "初试锋芒", Description: "通过第一个测验", Icon: "✏️", CriteriaType: model.CriteriaQuizzesPassed, Threshold: 1, Enabled: true},
		{Code: "quiz_master", Name: "测验达人", Description: "通过10个测验", Icon: "🏆", CriteriaType: model.CriteriaQuizzesPassed, Threshold: 10, Enabled: true},
		{Code: "graduate", Name: "顺利结业", Description: "完成第一门课程", Icon: "🎖️", CriteriaType: model.CriteriaCoursesCompleted, Threshold: 1, Enabled: true},
		{Code: "collector", Name: "课程收藏家", Description: "完成5门课程", Icon: "💼", CriteriaType: model.CriteriaCoursesCompleted, Threshold: 5, Enabled: true},
		{Code: "xp_1000", Name: "千分选手", Description: "累计获得1000 XP", Icon: "💎", CriteriaType: model.CriteriaXPTotal, Threshold: 1000, Enabled: true},
	}
	for _, b := range defaultBadges {
		db.Create(&b)
	}
}
