package repository

import (
	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Save(message *model.ChatMessage) error {
	return r.DB.Create(message).Error
}

// RecentHistory 最近 n 条对话，按时间正序返回（用于拼接上下文）
func (r *ChatRepository) RecentHistory(userID uint, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// 倒序查出来，翻回正序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) ClearHistory(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.ChatMessage{}).Error
}
