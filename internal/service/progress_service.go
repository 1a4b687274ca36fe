package service

import (
	"math"
	"time"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"
	"kiongozi_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProgressService 模块进度与课程完成度聚合
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Gamification   *GamificationService
	Badges         *BadgeService
	Streaks        *StreakService
	Certificates   *CertificateService

	DefaultModuleXP int
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	gamification *GamificationService,
	badges *BadgeService,
	streaks *StreakService,
	certificates *CertificateService,
	defaultModuleXP int,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:    progressRepo,
		CourseRepo:      courseRepo,
		ModuleRepo:      moduleRepo,
		EnrollmentRepo:  enrollmentRepo,
		Gamification:    gamification,
		Badges:          badges,
		Streaks:         streaks,
		Certificates:    certificates,
		DefaultModuleXP: defaultModuleXP,
	}
}

// ComputeCourseProgress 完成度百分比，四舍五入；没有模块的课程定义为0，
// 避免除零。completed 当且仅当百分比为100。
func ComputeCourseProgress(completedModules, totalModules int) (int, bool) {
	if totalModules <= 0 {
		return 0, false
	}
	percentage := int(math.Round(100 * float64(completedModules) / float64(totalModules)))
	// 99.5%+ 会四舍五入到100，但只有全部模块完成才算100
	if percentage == 100 && completedModules < totalModules {
		percentage = 99
	}
	return percentage, percentage == 100
}

// CourseProgress 重算结果
type CourseProgress struct {
	Percentage     int  `json:"percentage"`
	Completed      bool `json:"completed"`
	JustCompleted  bool `json:"justCompleted"` // 本次从未完成翻转为完成
	CompletedCount int  `json:"completedCount"`
	TotalCount     int  `json:"totalCount"`
}

// ModuleCompletionResult 完成模块的saga结果
type ModuleCompletionResult struct {
	XPAwarded     int             `json:"xpAwarded"`
	Streak        int             `json:"streak"`
	NewBadges     []model.Badge   `json:"newBadges"`
	CourseUpdates []CourseProgress `json:"courseUpdates"`
}

// StartModule 首次浏览：惰性创建进度记录并刷新选课的最后访问时间。
// 只有选了课才会产生进度。
func (s *ProgressService) StartModule(userID, courseID, moduleID uint) error {
	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err != nil {
		return util.ErrNotEnrolled
	}
	if err := s.ProgressRepo.EnsureStarted(userID, moduleID); err != nil {
		return err
	}
	return s.EnrollmentRepo.TouchLastAccessed(userID, courseID)
}

func (s *ProgressService) SaveNotes(userID, moduleID uint, notes string) error {
	return s.ProgressRepo.SaveNotes(userID, moduleID, notes)
}

// CompleteModule 模块完成saga：进度置位 → 记账发XP → 连续天数 →
// 徽章评估 → 课程完成度重算。各步骤顺序执行，出错即中止后续步骤。
// 进度置位是幂等的，重复完成不再发XP。
func (s *ProgressService) CompleteModule(userID, moduleID uint) (*ModuleCompletionResult, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, err
	}

	xpReward := module.XPReward
	if xpReward <= 0 {
		xpReward = s.DefaultModuleXP
	}

	transitioned, err := s.ProgressRepo.MarkCompleted(userID, moduleID, xpReward)
	if err != nil {
		return nil, err
	}

	result := &ModuleCompletionResult{}

	if transitioned {
		awarded, err := s.Gamification.AwardXP(userID, model.XPSourceModuleCompletion, moduleID, xpReward)
		if err != nil {
			return nil, err
		}
		if awarded {
			result.XPAwarded = xpReward
		}
	}

	streak, err := s.Streaks.UpdateStreak(userID)
	if err != nil {
		return nil, err
	}
	result.Streak = streak

	badges, err := s.Badges.CheckAndAwardBadges(userID)
	if err != nil {
		return nil, err
	}
	result.NewBadges = badges

	// 模块可能被多门课程引用，全部重算
	courseIDs, err := s.CourseRepo.CoursesContainingModule(moduleID)
	if err != nil {
		return nil, err
	}
	for _, courseID := range courseIDs {
		progress, err := s.RecomputeCourseProgress(userID, courseID)
		if err != nil {
			return nil, err
		}
		result.CourseUpdates = append(result.CourseUpdates, *progress)
	}

	// 课程完成可能解锁 courses_completed 类徽章
	for _, update := range result.CourseUpdates {
		if update.JustCompleted {
			more, err := s.Badges.CheckAndAwardBadges(userID)
			if err != nil {
				return nil, err
			}
			result.NewBadges = append(result.NewBadges, more...)
			break
		}
	}

	return result, nil
}

// RecomputeCourseProgress 对照权威的已完成模块集合现算完成度，
// 绝不在旧值上做增量。百分比翻到100时把选课翻转为 completed
// 并签发证书（翻转信号的消费方）。
func (s *ProgressService) RecomputeCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		// 未选课的模块完成不影响任何选课记录
		return &CourseProgress{}, nil
	}

	total, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.ProgressRepo.CountCompletedInCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	percentage, done := ComputeCourseProgress(int(completed), int(total))

	progress := &CourseProgress{
		Percentage:     percentage,
		Completed:      done,
		CompletedCount: int(completed),
		TotalCount:     int(total),
	}

	wasCompleted := enrollment.Status == model.EnrollmentCompleted

	enrollment.ProgressPercentage = percentage
	if done {
		enrollment.Status = model.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	}
	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}

	if done && !wasCompleted {
		progress.JustCompleted = true
		if _, err := s.Certificates.IssueCertificate(userID, courseID); err != nil {
			// 证书签发失败不回滚完成状态，记录后由补偿任务处理
			logger.Log.Error("certificate issuance failed",
				zap.Uint("userID", userID),
				zap.Uint("courseID", courseID),
				zap.Error(err))
		}
	}

	return progress, nil
}
