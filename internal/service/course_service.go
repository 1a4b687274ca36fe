package service

import (
	"errors"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService 课程目录：浏览、详情、选课，以及教师端的课程和模块管理
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	QuizRepo       *repository.QuizRepository
	Badges         *BadgeService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	badges *BadgeService,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		QuizRepo:       quizRepo,
		Badges:         badges,
	}
}

// CourseList 分页的课程目录
type CourseList struct {
	Courses []model.Course `json:"courses"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

func (s *CourseService) BrowseCourses(page, limit int, difficulty, search string) (*CourseList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	courses, total, err := s.CourseRepo.FindPublished(page, limit, repository.CourseFilter{
		Difficulty: difficulty,
		Search:     search,
	})
	if err != nil {
		return nil, err
	}

	return &CourseList{Courses: courses, Total: total, Page: page, Limit: limit}, nil
}

// ModuleView 课程详情里的模块条目，带当前学习者的进度状态
type ModuleView struct {
	model.Module
	Status string `json:"status"` // not_started / in_progress / completed
}

// CourseDetail 课程详情。userID 为 0 时（未登录浏览）不带进度信息。
type CourseDetail struct {
	Course     model.Course      `json:"course"`
	Modules    []ModuleView      `json:"modules"`
	Quizzes    []model.Quiz      `json:"quizzes"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
}

func (s *CourseService) GetCourseDetail(courseID, userID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	modules, err := s.CourseRepo.ModulesByCourse(courseID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.QuizRepo.FindPublishedByCourse(courseID)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{Course: *course, Quizzes: quizzes}

	statusByModule := make(map[uint]string)
	if userID != 0 {
		enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
		if err == nil {
			detail.Enrollment = enrollment
			// 浏览详情视为一次课程访问
			s.EnrollmentRepo.TouchLastAccessed(userID, courseID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		records, err := s.ProgressRepo.ListByUserAndCourse(userID, courseID)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			statusByModule[record.ModuleID] = string(record.Status)
		}
	}

	for _, m := range modules {
		status, ok := statusByModule[m.ID]
		if !ok {
			status = "not_started"
		}
		detail.Modules = append(detail.Modules, ModuleView{Module: m, Status: status})
	}

	return detail, nil
}

// Enroll 选课。重复选课幂等返回已有记录，选课成功后检查徽章
// （部分徽章按选课数发放）。
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}

	enrollment, err := s.EnrollmentRepo.Enroll(userID, courseID)
	if err != nil {
		return nil, err
	}

	if s.Badges != nil {
		s.Badges.CheckAndAwardBadges(userID)
	}

	return enrollment, nil
}

// MyCourses 我的课程，可按 in_progress / completed 过滤
func (s *CourseService) MyCourses(userID uint, status string) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID, status)
}

// ---- 教师端 ----

type CourseRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DifficultyLevel string `json:"difficultyLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	Published       bool   `json:"published"`
}

func (s *CourseService) CreateCourse(instructorID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: model.CourseDifficulty(req.DifficultyLevel),
		ThumbnailURL:    req.ThumbnailURL,
		InstructorID:    instructorID,
		Published:       req.Published,
	}
	if course.DifficultyLevel == "" {
		course.DifficultyLevel = model.DifficultyBeginner
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	course.Title = req.Title
	course.Description = req.Description
	if req.DifficultyLevel != "" {
		course.DifficultyLevel = model.CourseDifficulty(req.DifficultyLevel)
	}
	course.ThumbnailURL = req.ThumbnailURL
	course.Published = req.Published

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID uint) error {
	return s.CourseRepo.Delete(courseID)
}

type ModuleRequest struct {
	Title                    string `json:"title" binding:"required"`
	ContentType              string `json:"contentType" binding:"omitempty,oneof=text video audio"`
	Content                  string `json:"content"`
	MediaURL                 string `json:"mediaUrl"`
	EstimatedDurationMinutes int    `json:"estimatedDurationMinutes" binding:"min=0"`
	XPReward                 int    `json:"xpReward" binding:"min=0"`
}

func (s *CourseService) CreateModule(req ModuleRequest) (*model.Module, error) {
	module := &model.Module{
		Title:                    req.Title,
		ContentType:              model.ModuleContentType(req.ContentType),
		Content:                  req.Content,
		MediaURL:                 req.MediaURL,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		XPReward:                 req.XPReward,
	}
	if module.ContentType == "" {
		module.ContentType = model.ContentText
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) UpdateModule(moduleID uint, req ModuleRequest) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, util.ErrModuleNotFound
	}

	module.Title = req.Title
	if req.ContentType != "" {
		module.ContentType = model.ModuleContentType(req.ContentType)
	}
	module.Content = req.Content
	module.MediaURL = req.MediaURL
	module.EstimatedDurationMinutes = req.EstimatedDurationMinutes
	module.XPReward = req.XPReward

	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

// ProbeModuleMedia 用ffprobe读取上传的音视频时长，回填预计学习时间
func (s *CourseService) ProbeModuleMedia(moduleID uint, localPath string) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, util.ErrModuleNotFound
	}

	info, err := util.ProbeMedia(localPath)
	if err != nil {
		return nil, err
	}

	module.EstimatedDurationMinutes = info.DurationMinutes()
	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

// AttachModule 把模块挂到课程的指定位置，同位置重复挂载时更新
func (s *CourseService) AttachModule(courseID, moduleID uint, position int) error {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return util.ErrCourseNotFound
	}
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		return util.ErrModuleNotFound
	}
	return s.CourseRepo.AttachModule(courseID, moduleID, position)
}
