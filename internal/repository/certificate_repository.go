package repository

import (
	"time"

	"kiongozi_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// Issue 签发证书，(user, course) 已有证书时为空操作
func (r *CertificateRepository) Issue(userID, courseID uint) (*model.Certificate, error) {
	cert := model.Certificate{
		UserID:       userID,
		CourseID:     courseID,
		SerialNumber: uuid.New().String(),
		IssuedAt:     time.Now(),
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&cert).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserAndCourse(userID, courseID)
}

func (r *CertificateRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}
