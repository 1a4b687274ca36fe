package repository

import (
	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CourseFilter 课程列表筛选条件
type CourseFilter struct {
	Difficulty string
	Search     string
}

func (r *CourseRepository) FindPublished(page, limit int, filter CourseFilter) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{}).Where("published = ?", true)

	if filter.Difficulty != "" {
		query = query.Where("difficulty_level = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

// AttachModule 把模块挂到课程，(course, module) 已存在时更新顺序
func (r *CourseRepository) AttachModule(courseID, moduleID uint, position int) error {
	link := model.CourseModule{CourseID: courseID, ModuleID: moduleID, Position: position}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position"}),
	}).Create(&link).Error
}

// ModulesByCourse 返回课程的模块，按 position 排序
func (r *CourseRepository) ModulesByCourse(courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.
		Joins("JOIN course_modules ON course_modules.module_id = modules.id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL", courseID).
		Order("course_modules.position ASC").
		Find(&modules).Error
	return modules, err
}

func (r *CourseRepository) CountModules(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseModule{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// CoursesContainingModule 模块完成后需要重算的课程集合
func (r *CourseRepository) CoursesContainingModule(moduleID uint) ([]uint, error) {
	var courseIDs []uint
	err := r.DB.Model(&model.CourseModule{}).
		Where("module_id = ?", moduleID).
		Pluck("course_id", &courseIDs).Error
	return courseIDs, err
}
