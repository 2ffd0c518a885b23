package service

import (
	"encoding/json"
	"errors"
	"testing"

	"go-stockledger/internal/model"

	"github.com/shopspring/decimal"
)

func TestRecordPurchaseIncrementsStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Widget", 3)

	purchase := &model.Purchase{
		ProductID:     product.ID,
		Quantity:      5,
		PurchasePrice: decimal.NewFromInt(150),
		SupplierName:  "Acme Supplies",
	}
	if err := env.purchases.RecordPurchase(purchase, "tester"); err != nil {
		t.Fatalf("record purchase: %v", err)
	}

	if got := currentStock(t, env, product); got != 8 {
		t.Fatalf("expected stock 8 got %d", got)
	}
	if !purchase.TotalCost.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("expected total cost 750 got %s", purchase.TotalCost)
	}
	if purchase.ProductName != "Widget" {
		t.Fatalf("expected product name snapshot got %q", purchase.ProductName)
	}

	var entry model.AuditLog
	if err := env.db.Where("module = ? AND action = ?", model.ModulePurchase, model.ActionStockIn).
		First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	if len(entry.OldState) != 0 {
		t.Fatalf("STOCK_IN oldState should be null, got %s", entry.OldState)
	}
	var newState map[string]interface{}
	if err := json.Unmarshal(entry.NewState, &newState); err != nil {
		t.Fatalf("decode new state: %v", err)
	}
	if newState["supplier_name"] != "Acme Supplies" {
		t.Fatalf("newState missing purchase fields: %v", newState)
	}
}

func TestRecordPurchaseUnknownProductRollsBack(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Widget", 3)

	ghost := *product
	if err := env.db.Delete(&model.Product{}, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("remove product: %v", err)
	}

	err := env.purchases.RecordPurchase(&model.Purchase{
		ProductID:     ghost.ID,
		Quantity:      5,
		PurchasePrice: decimal.NewFromInt(150),
	}, "tester")
	if !errors.Is(err, model.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound got %v", err)
	}

	var purchaseCount int64
	if err := env.db.Model(&model.Purchase{}).Count(&purchaseCount).Error; err != nil {
		t.Fatalf("count purchases: %v", err)
	}
	if purchaseCount != 0 {
		t.Fatalf("failed purchase persisted %d rows", purchaseCount)
	}
	if got := auditCount(t, env, model.ModulePurchase, model.ActionStockIn); got != 0 {
		t.Fatalf("failed purchase wrote audit entries: %d", got)
	}
}

func TestRecordPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Widget", 3)

	err := env.purchases.RecordPurchase(&model.Purchase{
		ProductID:     product.ID,
		Quantity:      0,
		PurchasePrice: decimal.NewFromInt(150),
	}, "tester")
	if err == nil {
		t.Fatal("expected validation error for zero quantity")
	}
	if got := currentStock(t, env, product); got != 3 {
		t.Fatalf("rejected purchase changed stock: %d", got)
	}
}
