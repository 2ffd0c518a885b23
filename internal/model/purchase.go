package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is an incoming stock event. Rows are immutable once created and
// each one corresponds to exactly one stock increment of Quantity.
type Purchase struct {
	BaseModel
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product       *Product        `json:"product,omitempty" validate:"-"`
	ProductName   string          `gorm:"type:varchar(255)" json:"product_name"`
	Quantity      int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"purchase_price" validate:"decimal_positive"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_cost"`
	SupplierName  string          `gorm:"type:varchar(255)" json:"supplier_name"`
	PurchaseDate  time.Time       `gorm:"type:date;not null;index" json:"purchase_date"`
}
