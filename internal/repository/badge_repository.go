package repository

import (
	"time"

	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindEnabled() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("enabled = ?", true).Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindByID(id uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.First(&badge, id).Error
	return &badge, err
}

// OwnedBadgeIDs 用户已持有的徽章ID集合
func (r *BadgeRepository) OwnedBadgeIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}
	owned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// Award 冲突忽略插入，返回本次是否真正授予。
// 唯一索引保证并发的重复调用不会把同一徽章发两次。
func (r *BadgeRepository) Award(userID, badgeID uint) (bool, error) {
	userBadge := model.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&userBadge)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *BadgeRepository) ListUserBadges(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at DESC").
		Find(&badges).Error
	return badges, err
}
