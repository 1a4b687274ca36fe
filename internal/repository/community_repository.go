package repository

import (
	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

func (r *CommunityRepository) ListPosts(page, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	r.DB.Model(&model.Post{}).Count(&total)

	offset := (page - 1) * limit
	err := r.DB.Offset(offset).Limit(limit).Order("created_at DESC").Find(&posts).Error
	return posts, total, err
}

func (r *CommunityRepository) FindPostByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Comments").First(&post, id).Error
	return &post, err
}

func (r *CommunityRepository) CreatePost(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *CommunityRepository) DeletePost(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

func (r *CommunityRepository) CreateComment(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommunityRepository) FindCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	return &comment, err
}

func (r *CommunityRepository) DeleteComment(id uint) error {
	return r.DB.Delete(&model.Comment{}, id).Error
}
