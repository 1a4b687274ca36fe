package model

import "time"

type BadgeCriteria string

const (
	CriteriaModulesCompleted BadgeCriteria = "modules_completed"
	CriteriaStreakDays       BadgeCriteria = "streak_days"
	CriteriaQuizzesPassed    BadgeCriteria = "quizzes_passed"
	CriteriaCoursesCompleted BadgeCriteria = "courses_completed"
	CriteriaXPTotal          BadgeCriteria = "xp_total"
)

// Badge 徽章定义（静态参考数据，启动时播种）
// swagger:model Badge
type Badge struct {
	BaseModel
	Code         string        `gorm:"size:50;unique;not null" json:"code"`
	Name         string        `gorm:"size:100;not null" json:"name"`
	Description  string        `gorm:"size:255" json:"description"`
	Icon         string        `gorm:"size:255" json:"icon"`
	CriteriaType BadgeCriteria `gorm:"size:32;not null" json:"criteriaType"`
	Threshold    int           `gorm:"not null" json:"threshold"`
	Enabled      bool          `gorm:"default:true" json:"enabled"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 学习者已获得的徽章，(user_id, badge_id) 唯一，
// 插入使用冲突忽略语义，并发重复调用不会重复授予。
// swagger:model UserBadge
type UserBadge struct {
	BaseModel
	UserID   uint      `gorm:"type:bigint unsigned;not null;index:idx_user_badge,unique" json:"userId"`
	BadgeID  uint      `gorm:"type:bigint unsigned;not null;index:idx_user_badge,unique" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
