package service

import (
	"fmt"
	"time"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseService is an append-only ledger: rows are created and deleted, never
// edited. It shares the audit-trail contract with the stock and order flows
// but has no stock interaction.
type ExpenseService interface {
	CreateExpense(req *model.Expense, actor string) error
	DeleteExpense(id uuid.UUID, actor string) error
	GetAllExpenses() ([]model.Expense, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	audit       AuditService
	db          *gorm.DB
	hub         *ws.Hub
}

func NewExpenseService(eRepo repository.ExpenseRepository, audit AuditService, db *gorm.DB, hub *ws.Hub) ExpenseService {
	return &expenseService{
		expenseRepo: eRepo,
		audit:       audit,
		db:          db,
		hub:         hub,
	}
}

func (s *expenseService) CreateExpense(req *model.Expense, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}
	req.CreatedBy = actor
	req.UpdatedBy = actor

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.expenseRepo.Create(tx, req); err != nil {
			return err
		}
		return s.audit.Record(tx, req.ID.String(), model.ModuleExpense, model.ActionCreate, nil, req, actor)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventExpenseRecorded,
			Actor:   actor,
			Message: fmt.Sprintf("%s recorded a %s expense of %s", actor, req.Type, req.Amount),
			Data:    map[string]interface{}{"expense_id": req.ID},
		})
	}
	return nil
}

// DeleteExpense logs the pre-delete row as oldState so the trail keeps what
// was removed.
func (s *expenseService) DeleteExpense(id uuid.UUID, actor string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.expenseRepo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.expenseRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.audit.Record(tx, id.String(), model.ModuleExpense, model.ActionDelete, existing, nil, actor)
	})
}

func (s *expenseService) GetAllExpenses() ([]model.Expense, error) {
	return s.expenseRepo.FindAll()
}
