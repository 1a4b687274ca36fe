package repository

import (
	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type XPEventRepository struct {
	DB *gorm.DB
}

func NewXPEventRepository(db *gorm.DB) *XPEventRepository {
	return &XPEventRepository{DB: db}
}

// AppendTx 在给定事务内追加一条账本记录。
// (user, source, reference) 已记过账时冲突忽略，返回本次是否真正插入。
func (r *XPEventRepository) AppendTx(tx *gorm.DB, event *model.XPEvent) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "source"}, {Name: "reference_id"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *XPEventRepository) ListByUser(userID uint, limit int) ([]model.XPEvent, error) {
	var events []model.XPEvent
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// SumByUser 从账本重建某个用户的XP总量
func (r *XPEventRepository) SumByUser(userID uint) (int, error) {
	var total int64
	err := r.DB.Model(&model.XPEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}
