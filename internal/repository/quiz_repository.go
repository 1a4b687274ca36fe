package repository

import (
	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindByIDWithQuestions 取测验及其题目和选项，题目与选项都按 position 排序
func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_options.position ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindPublishedByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ? AND published = ?", courseID, true).Find(&quizzes).Error
	return quizzes, err
}

// CreateWithQuestions 级联创建测验、题目和选项
func (r *QuizRepository) CreateWithQuestions(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.QuizQuestion{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuizOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *QuizRepository) SaveAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizRepository) ListAttempts(userID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// HasPassedAttempt 是否已有通过的作答记录（XP只发一次的依据）
func (r *QuizRepository) HasPassedAttempt(userID, quizID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

// CountPassedQuizzes 通过的测验数（同一测验只计一次）
func (r *QuizRepository) CountPassedQuizzes(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Distinct("quiz_id").
		Count(&count).Error
	return count, err
}
