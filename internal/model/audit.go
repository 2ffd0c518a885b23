package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type AuditModule string

const (
	ModuleCategory  AuditModule = "Category"
	ModuleInventory AuditModule = "Inventory"
	ModuleOrder     AuditModule = "Order"
	ModuleFinancial AuditModule = "Financial"
	ModulePurchase  AuditModule = "Purchase"
	ModuleExpense   AuditModule = "Expense"
)

type AuditAction string

const (
	ActionCreate       AuditAction = "CREATE"
	ActionUpdate       AuditAction = "UPDATE"
	ActionDelete       AuditAction = "DELETE"
	ActionStockIn      AuditAction = "STOCK_IN"
	ActionStatusChange AuditAction = "STATUS_CHANGE"
	ActionPayment      AuditAction = "PAYMENT"
)

// Snapshot stores a JSON-encoded before/after state as text. A nil snapshot
// persists as NULL and renders as JSON null.
type Snapshot json.RawMessage

func (s Snapshot) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return string(s), nil
}

func (s *Snapshot) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = nil
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*s = buf
	case string:
		*s = Snapshot(v)
	default:
		return fmt.Errorf("unsupported snapshot source %T", value)
	}
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = append((*s)[0:0], data...)
	return nil
}

// NewSnapshot marshals a state value; nil in, nil out.
func NewSnapshot(state interface{}) (Snapshot, error) {
	if state == nil {
		return nil, nil
	}
	buf, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return Snapshot(buf), nil
}

// AuditLog is the append-only before/after record written alongside every
// mutation, inside the same transaction. Rows are never updated or deleted.
type AuditLog struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	TargetID  string      `gorm:"type:varchar(50);index" json:"target_id"`
	Module    AuditModule `gorm:"type:varchar(50);not null;index" json:"module"`
	Action    AuditAction `gorm:"type:varchar(50);not null" json:"action"`
	OldState  Snapshot    `gorm:"type:text" json:"old_state"`
	NewState  Snapshot    `gorm:"type:text" json:"new_state"`
	ChangedBy string      `gorm:"type:varchar(255)" json:"changed_by"`
	Timestamp time.Time   `gorm:"autoCreateTime;index" json:"timestamp"`
}
