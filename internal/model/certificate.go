package model

import "time"

// Certificate 课程完成证书。选课进度翻转为 completed 时签发，
// (user_id, course_id) 唯一，重复签发为空操作。证书渲染由外部完成。
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID       uint      `gorm:"type:bigint unsigned;not null;index:idx_user_course_cert,unique" json:"userId"`
	CourseID     uint      `gorm:"type:bigint unsigned;not null;index:idx_user_course_cert,unique" json:"courseId"`
	SerialNumber string    `gorm:"size:36;unique;not null" json:"serialNumber"`
	IssuedAt     time.Time `gorm:"not null" json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
