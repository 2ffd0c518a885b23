package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a simple append-only ledger row; mutations are CREATE/DELETE only.
type Expense struct {
	BaseModel
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" validate:"decimal_positive"`
	Type        string          `gorm:"type:varchar(100);not null" json:"type" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
}
