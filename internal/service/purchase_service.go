package service

import (
	"fmt"
	"time"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	RecordPurchase(req *model.Purchase, actor string) error
	GetAllPurchases() ([]model.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	audit        AuditService
	db           *gorm.DB
	hub          *ws.Hub
}

func NewPurchaseService(pRepo repository.PurchaseRepository, prodRepo repository.ProductRepository, audit AuditService, db *gorm.DB, hub *ws.Hub) PurchaseService {
	return &purchaseService{
		purchaseRepo: pRepo,
		productRepo:  prodRepo,
		audit:        audit,
		db:           db,
		hub:          hub,
	}
}

// RecordPurchase persists the purchase row, increments stock, and appends the
// STOCK_IN audit entry as one atomic unit. A failure at any step leaves no
// purchase-without-increment state behind.
func (s *purchaseService) RecordPurchase(req *model.Purchase, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	req.CreatedBy = actor
	req.UpdatedBy = actor
	if req.PurchaseDate.IsZero() {
		req.PurchaseDate = time.Now()
	}
	if req.TotalCost.IsZero() {
		req.TotalCost = req.PurchasePrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	}

	var newStock int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDTx(tx, req.ProductID)
		if err != nil {
			return err
		}
		req.ProductName = product.Name

		if err := s.purchaseRepo.Create(tx, req); err != nil {
			return err
		}

		newStock, err = s.productRepo.AdjustStock(tx, req.ProductID, req.Quantity, actor)
		if err != nil {
			return err
		}

		return s.audit.Record(tx, req.ID.String(), model.ModulePurchase, model.ActionStockIn, nil, req, actor)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventStockAdjusted,
			Actor:   actor,
			Message: fmt.Sprintf("%s received %d units of '%s'", actor, req.Quantity, req.ProductName),
			Data: map[string]interface{}{
				"product_id": req.ProductID,
				"quantity":   req.Quantity,
				"new_stock":  newStock,
			},
		})
	}
	return nil
}

func (s *purchaseService) GetAllPurchases() ([]model.Purchase, error) {
	return s.purchaseRepo.FindAll()
}
