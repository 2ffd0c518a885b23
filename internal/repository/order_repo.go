package repository

import (
	"encoding/json"
	"errors"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindAll() ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdateDelivery(tx *gorm.DB, id uuid.UUID, previous, next model.Delivery, updatedBy string) error
	UpdatePayment(tx *gorm.DB, id uuid.UUID, previous, next model.Payment, updatedBy string) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Order("order_date DESC, created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	return &order, err
}

// UpdateDelivery writes the new delivery sub-object guarded by the serialized
// previous value. If another transaction changed delivery since our read, zero
// rows match and the caller's transaction rolls back instead of releasing or
// reserving stock twice.
func (r *orderRepo) UpdateDelivery(tx *gorm.DB, id uuid.UUID, previous, next model.Delivery, updatedBy string) error {
	prevJSON, err := json.Marshal(previous)
	if err != nil {
		return err
	}
	res := tx.Model(&model.Order{}).
		Where("id = ? AND delivery = ?", id, string(prevJSON)).
		Select("Delivery", "UpdatedBy").
		Updates(model.Order{Delivery: next, BaseModel: model.BaseModel{UpdatedBy: updatedBy}})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.guardFailure(tx, id)
	}
	return nil
}

// UpdatePayment has the same optimistic guard as UpdateDelivery; payments are
// additive so a lost update would corrupt paidAmount.
func (r *orderRepo) UpdatePayment(tx *gorm.DB, id uuid.UUID, previous, next model.Payment, updatedBy string) error {
	prevJSON, err := json.Marshal(previous)
	if err != nil {
		return err
	}
	res := tx.Model(&model.Order{}).
		Where("id = ? AND payment = ?", id, string(prevJSON)).
		Select("Payment", "UpdatedBy").
		Updates(model.Order{Payment: next, BaseModel: model.BaseModel{UpdatedBy: updatedBy}})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.guardFailure(tx, id)
	}
	return nil
}

func (r *orderRepo) guardFailure(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&model.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return model.ErrOrderNotFound
	}
	return model.ErrConcurrentUpdate
}
