package repository

import (
	"time"

	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndModule(userID, moduleID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// EnsureStarted 首次浏览模块时惰性创建 in_progress 记录，已存在时为空操作
func (r *ProgressRepository) EnsureStarted(userID, moduleID uint) error {
	progress := model.Progress{
		UserID:   userID,
		ModuleID: moduleID,
		Status:   model.ProgressInProgress,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&progress).Error
}

// MarkCompleted 把进度置为已完成；返回是否发生了状态翻转。
// 已完成的记录保持原样（重复完成是空操作）。
func (r *ProgressRepository) MarkCompleted(userID, moduleID uint, xpEarned int) (bool, error) {
	var transitioned bool

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		progress := model.Progress{
			UserID:   userID,
			ModuleID: moduleID,
			Status:   model.ProgressInProgress,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
			DoNothing: true,
		}).Create(&progress).Error; err != nil {
			return err
		}

		now := time.Now()
		result := tx.Model(&model.Progress{}).
			Where("user_id = ? AND module_id = ? AND status != ?", userID, moduleID, model.ProgressCompleted).
			Updates(map[string]interface{}{
				"status":       model.ProgressCompleted,
				"completed_at": now,
				"xp_earned":    xpEarned,
			})
		if result.Error != nil {
			return result.Error
		}
		transitioned = result.RowsAffected > 0
		return nil
	})

	return transitioned, err
}

// SaveNotes 笔记编辑也会惰性创建进度记录
func (r *ProgressRepository) SaveNotes(userID, moduleID uint, notes string) error {
	if err := r.EnsureStarted(userID, moduleID); err != nil {
		return err
	}
	return r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Update("notes", notes).
		Error
}

// CountCompletedInCourse 课程内已完成的模块数（权威数据，聚合时永远现算）
func (r *ProgressRepository) CountCompletedInCourse(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Joins("JOIN course_modules ON course_modules.module_id = progress.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL", courseID).
		Where("progress.user_id = ? AND progress.status = ?", userID, model.ProgressCompleted).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND status = ?", userID, model.ProgressCompleted).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.
		Joins("JOIN course_modules ON course_modules.module_id = progress.module_id").
		Where("course_modules.course_id = ? AND progress.user_id = ?", courseID, userID).
		Find(&rows).Error
	return rows, err
}
