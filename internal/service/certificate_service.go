package service

import (
	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/pkg/logger"

	"go.uber.org/zap"
)

// CertificateService 课程完成证书的签发与查询。
// 渲染（HTML/PDF）由外部服务消费签发记录完成。
type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
	CourseRepo      *repository.CourseRepository
	UserRepo        *repository.UserRepository
}

func NewCertificateService(
	certificateRepo *repository.CertificateRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
) *CertificateService {
	return &CertificateService{
		CertificateRepo: certificateRepo,
		CourseRepo:      courseRepo,
		UserRepo:        userRepo,
	}
}

// IssueCertificate 幂等签发：同一 (学习者, 课程) 只会有一张证书
func (s *CertificateService) IssueCertificate(userID, courseID uint) (*model.Certificate, error) {
	cert, err := s.CertificateRepo.Issue(userID, courseID)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("certificate issued",
		zap.Uint("userID", userID),
		zap.Uint("courseID", courseID),
		zap.String("serial", cert.SerialNumber))
	return cert, nil
}

func (s *CertificateService) GetUserCertificates(userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(userID)
}

func (s *CertificateService) GetCertificate(userID, courseID uint) (*model.Certificate, error) {
	return s.CertificateRepo.FindByUserAndCourse(userID, courseID)
}
