package model

import "time"

// Quiz 属于课程，可选地挂在某个模块上。TimeLimitMinutes 为 0 表示不限时。
// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID         uint           `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	ModuleID         *uint          `gorm:"index;type:bigint unsigned" json:"moduleId,omitempty"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	PassingScore     int            `gorm:"default:70" json:"passingScore"` // 0-100 百分比阈值
	TimeLimitMinutes int            `gorm:"default:0" json:"timeLimitMinutes"`
	XPReward         int            `gorm:"default:0" json:"xpReward"` // 0 表示使用全局默认值
	Published        bool           `gorm:"default:false" json:"published"`
	Questions        []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID   uint         `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Points   int          `gorm:"not null;default:1" json:"points"`
	Position int          `gorm:"not null;default:0" json:"position"`
	Options  []QuizOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizOption 创建时校验每道题恰好一个 IsCorrect 选项
// swagger:model QuizOption
type QuizOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
	Position   int    `gorm:"not null;default:0" json:"position"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}

// QuizAttempt 每次提交一条记录，允许多次作答；核心不做"最佳成绩"聚合
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID       uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	QuizID       uint          `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Score        int           `gorm:"not null" json:"score"` // 0-100
	EarnedPoints int           `gorm:"not null" json:"earnedPoints"`
	TotalPoints  int           `gorm:"not null" json:"totalPoints"`
	Passed       bool          `gorm:"not null" json:"passed"`
	AutoSubmit   bool          `gorm:"default:false" json:"autoSubmit"` // 倒计时归零自动提交
	Answers      map[uint]uint `gorm:"serializer:json;type:json" json:"answers"` // questionID -> optionID
	StartedAt    time.Time     `json:"startedAt"`
	SubmittedAt  time.Time     `json:"submittedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
