package repository

import (
	"time"

	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Enroll 幂等选课：(user, course) 已存在时为空操作
func (r *EnrollmentRepository) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	enrollment := model.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		Status:         model.EnrollmentInProgress,
		LastAccessedAt: time.Now(),
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserAndCourse(userID, courseID)
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint, status string) ([]model.Enrollment, error) {
	query := r.DB.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var enrollments []model.Enrollment
	err := query.Order("last_accessed_at DESC").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

func (r *EnrollmentRepository) TouchLastAccessed(userID, courseID uint) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("last_accessed_at", time.Now()).
		Error
}

func (r *EnrollmentRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, model.EnrollmentCompleted).
		Count(&count).Error
	return count, err
}
