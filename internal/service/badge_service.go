package service

import (
	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/pkg/logger"

	"go.uber.org/zap"
)

// BadgeService 根据学习者的统计快照评估徽章资格
type BadgeService struct {
	BadgeRepo      *repository.BadgeRepository
	UserRepo       *repository.UserRepository
	ProgressRepo   *repository.ProgressRepository
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewBadgeService(
	badgeRepo *repository.BadgeRepository,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *BadgeService {
	return &BadgeService{
		BadgeRepo:      badgeRepo,
		UserRepo:       userRepo,
		ProgressRepo:   progressRepo,
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// LearnerStats 评估徽章时使用的统计快照
type LearnerStats struct {
	ModulesCompleted int
	CurrentStreak    int
	QuizzesPassed    int
	CoursesCompleted int
	TotalXP          int
}

// QualifiesFor 判断统计快照是否满足徽章的获取条件
func QualifiesFor(stats LearnerStats, badge model.Badge) bool {
	switch badge.CriteriaType {
	case model.CriteriaModulesCompleted:
		return stats.ModulesCompleted >= badge.Threshold
	case model.CriteriaStreakDays:
		return stats.CurrentStreak >= badge.Threshold
	case model.CriteriaQuizzesPassed:
		return stats.QuizzesPassed >= badge.Threshold
	case model.CriteriaCoursesCompleted:
		return stats.CoursesCompleted >= badge.Threshold
	case model.CriteriaXPTotal:
		return stats.TotalXP >= badge.Threshold
	default:
		return false
	}
}

// NewlyQualified 过滤掉已持有的徽章后，返回本次满足条件的定义
func NewlyQualified(stats LearnerStats, badges []model.Badge, owned map[uint]bool) []model.Badge {
	var qualified []model.Badge
	for _, badge := range badges {
		if owned[badge.ID] {
			continue
		}
		if QualifiesFor(stats, badge) {
			qualified = append(qualified, badge)
		}
	}
	return qualified
}

// CheckAndAwardBadges 对学习者当前的统计快照评估全部徽章，
// 授予新达标的并返回。重复调用安全：已持有的徽章不再评估，
// 插入本身也是冲突忽略的。
func (s *BadgeService) CheckAndAwardBadges(userID uint) ([]model.Badge, error) {
	stats, err := s.snapshotStats(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.BadgeRepo.FindEnabled()
	if err != nil {
		return nil, err
	}

	owned, err := s.BadgeRepo.OwnedBadgeIDs(userID)
	if err != nil {
		return nil, err
	}

	var awarded []model.Badge
	for _, badge := range NewlyQualified(stats, badges, owned) {
		created, err := s.BadgeRepo.Award(userID, badge.ID)
		if err != nil {
			return awarded, err
		}
		if created {
			logger.Log.Info("badge awarded",
				zap.Uint("userID", userID),
				zap.String("badge", badge.Code))
			awarded = append(awarded, badge)
		}
	}

	return awarded, nil
}

func (s *BadgeService) snapshotStats(userID uint) (LearnerStats, error) {
	var stats LearnerStats

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return stats, err
	}
	stats.CurrentStreak = user.CurrentStreak
	stats.TotalXP = user.TotalXP

	modulesCompleted, err := s.ProgressRepo.CountCompletedByUser(userID)
	if err != nil {
		return stats, err
	}
	stats.ModulesCompleted = int(modulesCompleted)

	quizzesPassed, err := s.QuizRepo.CountPassedQuizzes(userID)
	if err != nil {
		return stats, err
	}
	stats.QuizzesPassed = int(quizzesPassed)

	coursesCompleted, err := s.EnrollmentRepo.CountCompletedByUser(userID)
	if err != nil {
		return stats, err
	}
	stats.CoursesCompleted = int(coursesCompleted)

	return stats, nil
}

func (s *BadgeService) GetUserBadges(userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.ListUserBadges(userID)
}

func (s *BadgeService) GetCatalog() ([]model.Badge, error) {
	return s.BadgeRepo.FindEnabled()
}
