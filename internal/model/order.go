package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Delivery statuses. Anything outside Cancelled/Returned is "active" and
// holds the ordered quantity reserved against product stock.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
	StatusReturned  = "Returned"
)

// Payment statuses derived from dueAmount on every payment application.
const (
	PaymentUnpaid      = "Unpaid"
	PaymentPartialPaid = "Partial Paid"
	PaymentPaid        = "Paid"
)

// IsActiveStatus reports whether a delivery status keeps stock reserved.
func IsActiveStatus(status string) bool {
	return status != StatusCancelled && status != StatusReturned
}

type RefNumbers struct {
	Invoice  string `json:"invoice,omitempty"`
	Tracking string `json:"tracking,omitempty"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Discount struct {
	Type  string          `json:"type,omitempty"` // "flat" or "percent"
	Value decimal.Decimal `json:"value"`
}

type Delivery struct {
	Status string          `json:"status"`
	Method string          `json:"method,omitempty"`
	Charge decimal.Decimal `json:"charge"`
}

// PaymentRecord is one entry in the append-only payment history.
type PaymentRecord struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Date          time.Time       `json:"date"`
	ReceivedBy    string          `json:"received_by"`
}

type Payment struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	Status     string          `json:"status"`
	History    []PaymentRecord `json:"history,omitempty"`
}

type Financials struct {
	NetPayable    decimal.Decimal `json:"net_payable"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}

type OrderMeta struct {
	OrderDate  time.Time `json:"order_date"`
	ReceivedBy string    `json:"received_by"`
}

// Order is created once; only delivery.status and the payment sub-object are
// mutable afterwards. The sub-objects are typed structs persisted as single
// JSON columns so the state machine and payment derivation stay compile-time
// checked while the storage layout matches one serialized column each.
type Order struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`

	RefNumbers RefNumbers `gorm:"serializer:json;type:jsonb" json:"ref_numbers"`
	Customer   Customer   `gorm:"serializer:json;type:jsonb" json:"customer"`
	Discount   Discount   `gorm:"serializer:json;type:jsonb" json:"discount"`
	Delivery   Delivery   `gorm:"serializer:json;type:jsonb" json:"delivery"`
	Payment    Payment    `gorm:"serializer:json;type:jsonb" json:"payment"`
	Financials Financials `gorm:"serializer:json;type:jsonb" json:"financials"`
	Meta       OrderMeta  `gorm:"serializer:json;type:jsonb" json:"meta"`

	OrderDate time.Time `gorm:"type:date;not null;index" json:"order_date"`
}
