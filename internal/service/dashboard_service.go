package service

import (
	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"
)

// DashboardService 学习者首页的聚合视图
type DashboardService struct {
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	QuizRepo       *repository.QuizRepository
	XPEventRepo    *repository.XPEventRepository
	Badges         *BadgeService
	Gamification   *GamificationService
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	xpEventRepo *repository.XPEventRepository,
	badges *BadgeService,
	gamification *GamificationService,
) *DashboardService {
	return &DashboardService{
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		QuizRepo:       quizRepo,
		XPEventRepo:    xpEventRepo,
		Badges:         badges,
		Gamification:   gamification,
	}
}

type LearningStatsView struct {
	CompletedModules int64 `json:"completedModules"`
	CompletedCourses int64 `json:"completedCourses"`
	PassedQuizzes    int64 `json:"passedQuizzes"`
}

type Dashboard struct {
	User          *model.User        `json:"user"`
	Level         LevelInfo          `json:"level"`
	Stats         LearningStatsView  `json:"stats"`
	InProgress    []model.Enrollment `json:"inProgress"`
	Badges        []model.Badge      `json:"badges"`
	RecentXPGains []model.XPEvent    `json:"recentXpGains"`
}

// GetUserDashboard 一次请求拼出首页需要的全部数据
func (s *DashboardService) GetUserDashboard(userID uint) (*Dashboard, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	dashboard := &Dashboard{
		User:  user,
		Level: CalculateLevel(user.TotalXP),
	}

	dashboard.Stats.CompletedModules, err = s.ProgressRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Stats.CompletedCourses, err = s.EnrollmentRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Stats.PassedQuizzes, err = s.QuizRepo.CountPassedQuizzes(userID)
	if err != nil {
		return nil, err
	}

	dashboard.InProgress, err = s.EnrollmentRepo.ListByUser(userID, string(model.EnrollmentInProgress))
	if err != nil {
		return nil, err
	}

	dashboard.Badges, err = s.Badges.GetUserBadges(userID)
	if err != nil {
		return nil, err
	}

	dashboard.RecentXPGains, err = s.XPEventRepo.ListByUser(userID, 10)
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}
