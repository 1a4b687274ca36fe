package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// Enrollment 选课记录。不变式：ProgressPercentage == 100 当且仅当
// 课程的全部模块都有已完成的 Progress 记录，此时 Status 必为 completed。
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID             uint             `gorm:"type:bigint unsigned;not null;index:idx_user_course,unique" json:"userId"`
	CourseID           uint             `gorm:"type:bigint unsigned;not null;index:idx_user_course,unique" json:"courseId"`
	ProgressPercentage int              `gorm:"default:0" json:"progressPercentage"`
	Status             EnrollmentStatus `gorm:"type:enum('in_progress','completed');default:'in_progress'" json:"status"`
	LastAccessedAt     time.Time        `json:"lastAccessedAt"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
