package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserFilter 定义用户筛选条件
// swagger:model UserFilter
type UserFilter struct {
	Role   string
	Search string
}

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
	Storage  StorageProvider
}

// NewUserService 创建一个新的用户服务实例
func NewUserService(userRepo *repository.UserRepository, storage StorageProvider) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

// GetUsers 获取用户列表，支持分页和筛选（管理端）
func (s *UserService) GetUsers(page, pageSize int, filter UserFilter) ([]model.User, int, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (page - 1) * pageSize
	query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users)

	return users, int(total), nil
}

// GetUserByID 根据ID获取用户信息
func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

type ProfileUpdate struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

// UpdateProfile 学习者更新自己的资料
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	user.Name = update.Name
	user.Bio = update.Bio
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRole 管理员调整用户角色
func (s *UserService) ChangeRole(userID uint, role model.UserRole) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	user.Role = role
	return s.UserRepo.Update(user)
}

// ChangePassword 校验旧密码后更新
func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("旧密码不正确")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// UploadAvatar 头像上传到配置的存储后端，文件名用uuid避免冲突
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	objectName := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), filepath.Ext(filename))
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
