package repository

import (
	"errors"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(tx *gorm.DB, category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Category, error)
	Update(tx *gorm.DB, category *model.Category) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(tx *gorm.DB, category *model.Category) error {
	return tx.Create(category).Error
}

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *categoryRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := tx.First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrCategoryNotFound
	}
	return &category, err
}

func (r *categoryRepo) Update(tx *gorm.DB, category *model.Category) error {
	return tx.Save(category).Error
}

func (r *categoryRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
