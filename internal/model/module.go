package model

type ModuleContentType string

const (
	ContentText  ModuleContentType = "text"
	ContentVideo ModuleContentType = "video"
	ContentAudio ModuleContentType = "audio"
)

// Module 学习模块，课程内容的原子单元
// swagger:model Module
type Module struct {
	BaseModel
	Title                    string            `gorm:"size:200;not null" json:"title"`
	ContentType              ModuleContentType `gorm:"type:enum('text','video','audio');default:'text'" json:"contentType"`
	Content                  string            `gorm:"type:longtext" json:"content"`
	MediaURL                 string            `gorm:"size:255" json:"mediaUrl"`
	EstimatedDurationMinutes int               `gorm:"default:0" json:"estimatedDurationMinutes"`
	XPReward                 int               `gorm:"default:0" json:"xpReward"` // 0 表示使用全局默认值
}

func (Module) TableName() string {
	return "modules"
}
