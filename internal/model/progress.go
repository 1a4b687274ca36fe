package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// Progress 每个 (学习者, 模块) 一条记录，首次浏览或编辑笔记时惰性创建。
// 完成状态只会被置位一次，重复完成通过唯一索引上的 upsert 变成空操作。
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID      uint           `gorm:"type:bigint unsigned;not null;index:idx_user_module,unique" json:"userId"`
	ModuleID    uint           `gorm:"type:bigint unsigned;not null;index:idx_user_module,unique" json:"moduleId"`
	Status      ProgressStatus `gorm:"type:enum('not_started','in_progress','completed');default:'not_started'" json:"status"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	XPEarned    int            `gorm:"default:0" json:"xpEarned"`
	Notes       string         `gorm:"type:text" json:"notes"`
}

func (Progress) TableName() string {
	return "progress"
}
