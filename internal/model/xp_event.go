package model

type XPSource string

const (
	XPSourceModuleCompletion XPSource = "module_completion"
	XPSourceQuizPass         XPSource = "quiz_pass"
	XPSourceEventAttendance  XPSource = "event_attendance"
)

// XPEvent XP账本：每个得分事件追加一条不可变记录，users.total_xp
// 是该账本的派生聚合，两者在同一事务内更新。
// (user, source, reference) 唯一索引由数据库兜底去重，
// 并发写入时只有一条能落库。
// swagger:model XPEvent
type XPEvent struct {
	BaseModel
	UserID      uint     `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_xp_user_source_ref" json:"userId"`
	Source      XPSource `gorm:"size:32;not null;uniqueIndex:idx_xp_user_source_ref" json:"source"`
	ReferenceID uint     `gorm:"type:bigint unsigned;uniqueIndex:idx_xp_user_source_ref" json:"referenceId"` // 模块/测验/活动ID
	Amount      int      `gorm:"not null" json:"amount"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}
