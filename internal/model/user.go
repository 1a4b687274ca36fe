package model

import (
	"time"
)

type UserRole string

const (
	Learner    UserRole = "learner"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// User 学习者档案。TotalXP/Level 是派生值，来源于 xp_events 账本；
// CurrentStreak/LastActivityDate 由连续学习天数追踪器维护。
// swagger:model User
type User struct {
	BaseModel
	Name             string    `gorm:"size:100;not null" json:"name"`
	Email            string    `gorm:"size:100;unique;not null" json:"email"`
	Password         string    `gorm:"size:100;not null" json:"-"`
	Role             UserRole  `gorm:"type:enum('learner','instructor','admin');default:'learner'" json:"role"`
	TotalXP          int        `gorm:"default:0" json:"totalXp"`
	Level            int        `gorm:"default:1" json:"level"`
	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"` // UTC日历日，NULL表示从未活跃
	Avatar           string     `gorm:"size:255" json:"avatar"`
	Bio              string     `gorm:"size:500" json:"bio"`
	Disabled         bool       `gorm:"default:false" json:"disabled"`
	LastLogin        time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen         time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
