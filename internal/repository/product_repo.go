package repository

import (
	"errors"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	CountByCategory(tx *gorm.DB, categoryID uuid.UUID) (int64, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (int, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrProductNotFound
	}
	return &product, err
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) CountByCategory(tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// AdjustStock applies a signed delta as one guarded UPDATE so the
// check and the write share a single statement: the row lock taken by the
// storage engine serializes concurrent adjustments, and a stock level below
// zero can never be persisted. Must run inside the caller's transaction.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (int, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND current_stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"updated_by":    updatedBy,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Zero rows means either the product is gone or the guard rejected
		// the delta; look again inside the same tx to tell them apart.
		var count int64
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, model.ErrProductNotFound
		}
		return 0, model.ErrInsufficientStock
	}

	var stock int
	if err := tx.Model(&model.Product{}).Where("id = ?", id).
		Select("current_stock").Scan(&stock).Error; err != nil {
		return 0, err
	}
	return stock, nil
}
