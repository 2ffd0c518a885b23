package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name       string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category       `json:"category,omitempty" validate:"-"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_price"`
	SellPrice  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"selling_price"`

	// OpeningStock is the immutable baseline quantity at the time the product
	// was registered. CurrentStock is mutated only through signed-delta
	// adjustments; it must never go negative.
	OpeningStock int `gorm:"default:0" json:"opening_stock" validate:"gte=0"`
	CurrentStock int `gorm:"default:0" json:"current_stock" validate:"gte=0"`

	Image string `gorm:"type:text" json:"image,omitempty"`
}
