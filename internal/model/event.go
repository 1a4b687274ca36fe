package model

import "time"

// Event 社区活动
// swagger:model Event
type Event struct {
	BaseModel
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"not null" json:"startsAt"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 表示不限人数
	CreatedBy   uint      `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Event) TableName() string {
	return "events"
}

// swagger:model EventAttendance
type EventAttendance struct {
	BaseModel
	EventID uint `gorm:"type:bigint unsigned;not null;index:idx_event_user,unique" json:"eventId"`
	UserID  uint `gorm:"type:bigint unsigned;not null;index:idx_event_user,unique" json:"userId"`
}

func (EventAttendance) TableName() string {
	return "event_attendances"
}
