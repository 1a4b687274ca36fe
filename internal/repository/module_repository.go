package repository

import (
	"kiongozi_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) Update(module *model.Module) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Module{}, id).Error
}
