package repository

import (
	"errors"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(tx *gorm.DB, expense *model.Expense) error
	FindAll() ([]model.Expense, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Expense, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(tx *gorm.DB, expense *model.Expense) error {
	return tx.Create(expense).Error
}

func (r *expenseRepo) FindAll() ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Order("date DESC, created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := tx.First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrExpenseNotFound
	}
	return &expense, err
}

func (r *expenseRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Expense{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrExpenseNotFound
	}
	return nil
}
