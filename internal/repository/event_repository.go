package repository

import (
	"time"

	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) ListUpcoming(page, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	query := r.DB.Model(&model.Event{}).Where("starts_at > ?", time.Now())
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Order("starts_at ASC").Find(&events).Error
	return events, total, err
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) CountAttendance(eventID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventAttendance{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// Attend 冲突忽略插入，返回本次是否新建了签到
func (r *EventRepository) Attend(eventID, userID uint) (bool, error) {
	attendance := model.EventAttendance{EventID: eventID, UserID: userID}
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&attendance)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
