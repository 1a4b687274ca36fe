package model

// ChatMessage AI助手的对话历史，按用户保存
// swagger:model ChatMessage
type ChatMessage struct {
	BaseModel
	UserID   uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	CourseID *uint  `gorm:"index;type:bigint unsigned" json:"courseId,omitempty"` // 可选的课程上下文
	Role     string `gorm:"size:16;not null" json:"role"`                         // user / assistant
	Content  string `gorm:"type:longtext;not null" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
