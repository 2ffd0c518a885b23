package service

import (
	"fmt"
	"strconv"
	"time"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApplyPaymentInput carries one partial payment against an order.
type ApplyPaymentInput struct {
	Amount        decimal.Decimal `json:"amount" validate:"decimal_positive"`
	Method        string          `json:"method" validate:"required"`
	TransactionID string          `json:"transaction_id"`
	ReceivedBy    string          `json:"received_by"`
}

type OrderService interface {
	CreateOrder(req *model.Order, actor string) error
	UpdateStatus(orderID uuid.UUID, newStatus, changedBy string) (*model.Order, error)
	ApplyPayment(orderID uuid.UUID, input ApplyPaymentInput) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	GetAllOrders() ([]model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	audit       AuditService
	db          *gorm.DB
	hub         *ws.Hub
}

func NewOrderService(oRepo repository.OrderRepository, pRepo repository.ProductRepository, audit AuditService, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:   oRepo,
		productRepo: pRepo,
		audit:       audit,
		db:          db,
		hub:         hub,
	}
}

var knownStatuses = map[string]bool{
	model.StatusPending:   true,
	model.StatusConfirmed: true,
	model.StatusShipped:   true,
	model.StatusDelivered: true,
	model.StatusCancelled: true,
	model.StatusReturned:  true,
}

// CreateOrder persists the order, reserves stock, and appends the CREATE
// audit entry in one transaction. The availability check and the decrement
// are the same guarded statement, so two orders racing for the last unit
// cannot both commit.
func (s *orderService) CreateOrder(req *model.Order, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if req.Delivery.Status == "" {
		req.Delivery.Status = model.StatusPending
	}
	if !knownStatuses[req.Delivery.Status] {
		return fmt.Errorf("unknown delivery status %q", req.Delivery.Status)
	}
	// Orders always enter the state machine holding stock; Cancelled/Returned
	// are reachable only through UpdateStatus, which releases it.
	if !model.IsActiveStatus(req.Delivery.Status) {
		return fmt.Errorf("order cannot be created in inactive status %q", req.Delivery.Status)
	}
	if req.Meta.ReceivedBy == "" {
		req.Meta.ReceivedBy = actor
	}
	if req.Meta.OrderDate.IsZero() {
		req.Meta.OrderDate = time.Now()
	}
	req.OrderDate = req.Meta.OrderDate
	if req.Subtotal.IsZero() {
		req.Subtotal = req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	}
	if req.Financials.NetPayable.IsZero() {
		req.Financials.NetPayable = req.Subtotal.Sub(req.Financials.TotalDiscount)
	}
	req.Payment.DueAmount = req.Financials.NetPayable.Sub(req.Payment.PaidAmount)
	req.Payment.Status = paymentStatus(req.Payment.PaidAmount, req.Payment.DueAmount)
	req.CreatedBy = actor
	req.UpdatedBy = actor

	var newStock int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDTx(tx, req.ProductID)
		if err != nil {
			return err
		}
		req.ProductName = product.Name

		if err := s.orderRepo.Create(tx, req); err != nil {
			return err
		}

		newStock, err = s.productRepo.AdjustStock(tx, req.ProductID, -req.Quantity, actor)
		if err != nil {
			return err
		}

		return s.audit.Record(tx, req.ID.String(), model.ModuleOrder, model.ActionCreate, nil, req, actor)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventOrderCreated,
			Actor:   actor,
			Message: fmt.Sprintf("%s placed an order for %d units of '%s'", actor, req.Quantity, req.ProductName),
			Data: map[string]interface{}{
				"order_id":   req.ID,
				"product_id": req.ProductID,
				"new_stock":  newStock,
			},
		})
	}
	return nil
}

// UpdateStatus drives the delivery state machine. Leaving the active set
// releases the reserved quantity; re-entering it re-reserves, failing the
// whole transition when stock is unavailable. A no-op transition (old == new)
// neither adjusts stock nor writes an audit entry.
func (s *orderService) UpdateStatus(orderID uuid.UUID, newStatus, changedBy string) (*model.Order, error) {
	if !knownStatuses[newStatus] {
		return nil, fmt.Errorf("unknown delivery status %q", newStatus)
	}

	var updated *model.Order
	var noop bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}

		oldStatus := order.Delivery.Status
		if oldStatus == newStatus {
			// Re-issuing the same status is a safe no-op: no stock
			// adjustment and no audit entry.
			updated = order
			noop = true
			return nil
		}

		wasActive := model.IsActiveStatus(oldStatus)
		willBeActive := model.IsActiveStatus(newStatus)
		switch {
		case wasActive && !willBeActive:
			if _, err := s.productRepo.AdjustStock(tx, order.ProductID, order.Quantity, changedBy); err != nil {
				return err
			}
		case !wasActive && willBeActive:
			if _, err := s.productRepo.AdjustStock(tx, order.ProductID, -order.Quantity, changedBy); err != nil {
				return err
			}
		}

		next := order.Delivery
		next.Status = newStatus
		if err := s.orderRepo.UpdateDelivery(tx, orderID, order.Delivery, next, changedBy); err != nil {
			return err
		}

		if err := s.audit.Record(tx, orderID.String(), model.ModuleOrder, model.ActionStatusChange,
			map[string]string{"status": oldStatus},
			map[string]string{"status": newStatus},
			changedBy); err != nil {
			return err
		}

		order.Delivery = next
		order.UpdatedBy = changedBy
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil && !noop {
		s.hub.Publish(ws.Event{
			Type:    ws.EventStatusChanged,
			Actor:   changedBy,
			Message: fmt.Sprintf("%s moved order %s to %s", changedBy, orderID, newStatus),
			Data:    map[string]interface{}{"order_id": orderID, "status": newStatus},
		})
	}
	return updated, nil
}

// ApplyPayment accumulates a partial payment, recomputes the due amount and
// derived status, and appends the PAYMENT audit entry atomically. Overpayment
// is recorded as-is; there is no reversal operation.
func (s *orderService) ApplyPayment(orderID uuid.UUID, input ApplyPaymentInput) (*model.Order, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	var updated *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}

		oldPayment := order.Payment
		newPaid := oldPayment.PaidAmount.Add(input.Amount)
		newDue := order.Financials.NetPayable.Sub(newPaid)

		record := model.PaymentRecord{
			ID:            newPaymentID(),
			Amount:        input.Amount,
			Method:        input.Method,
			TransactionID: input.TransactionID,
			Date:          time.Now().UTC(),
			ReceivedBy:    input.ReceivedBy,
		}

		next := model.Payment{
			PaidAmount: newPaid,
			DueAmount:  newDue,
			Status:     paymentStatus(newPaid, newDue),
			History:    append(append([]model.PaymentRecord{}, oldPayment.History...), record),
		}

		if err := s.orderRepo.UpdatePayment(tx, orderID, oldPayment, next, input.ReceivedBy); err != nil {
			return err
		}

		if err := s.audit.Record(tx, orderID.String(), model.ModuleFinancial, model.ActionPayment,
			oldPayment, next, input.ReceivedBy); err != nil {
			return err
		}

		order.Payment = next
		order.UpdatedBy = input.ReceivedBy
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventPaymentReceived,
			Actor:   input.ReceivedBy,
			Message: fmt.Sprintf("%s recorded a payment of %s against order %s", input.ReceivedBy, input.Amount, orderID),
			Data:    map[string]interface{}{"order_id": orderID, "status": updated.Payment.Status},
		})
	}
	return updated, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.FindByID(id)
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

// newPaymentID builds a history entry id. The millisecond stamp keeps ids
// sortable; the random suffix keeps two payments landing in the same
// millisecond distinguishable.
func newPaymentID() string {
	return "PAY-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// paymentStatus derives the payment status from the running totals: Paid once
// nothing is due (overpayment included), Partial Paid while something has
// been received, Unpaid otherwise.
func paymentStatus(paid, due decimal.Decimal) string {
	switch {
	case paid.Sign() > 0 && due.Sign() <= 0:
		return model.PaymentPaid
	case paid.Sign() > 0:
		return model.PaymentPartialPaid
	default:
		return model.PaymentUnpaid
	}
}
