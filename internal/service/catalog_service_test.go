package service

import (
	"encoding/json"
	"errors"
	"testing"

	"go-stockledger/internal/model"

	"github.com/shopspring/decimal"
)

func TestCreateProductStartsAtOpeningStock(t *testing.T) {
	env := newTestEnv(t)

	product := &model.Product{
		Name:         "Widget",
		CostPrice:    decimal.NewFromInt(200),
		SellPrice:    decimal.NewFromInt(300),
		OpeningStock: 7,
	}
	if err := env.catalog.CreateProduct(product, "tester"); err != nil {
		t.Fatalf("create product: %v", err)
	}

	if product.CurrentStock != 7 {
		t.Fatalf("expected current stock seeded from opening stock, got %d", product.CurrentStock)
	}
	if got := auditCount(t, env, model.ModuleInventory, model.ActionCreate); got != 1 {
		t.Fatalf("expected 1 Inventory CREATE entry got %d", got)
	}
}

func TestUpdateProductAuditsBeforeAndAfter(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Widget", 5)

	req := *product
	req.Name = "Widget Mk2"
	req.CurrentStock = 9
	if _, err := env.catalog.UpdateProduct(product.ID, &req, "tester"); err != nil {
		t.Fatalf("update product: %v", err)
	}

	var entry model.AuditLog
	if err := env.db.Where("module = ? AND action = ?", model.ModuleInventory, model.ActionUpdate).
		First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	var oldState, newState map[string]interface{}
	if err := json.Unmarshal(entry.OldState, &oldState); err != nil {
		t.Fatalf("decode old state: %v", err)
	}
	if err := json.Unmarshal(entry.NewState, &newState); err != nil {
		t.Fatalf("decode new state: %v", err)
	}
	if oldState["name"] != "Widget" || newState["name"] != "Widget Mk2" {
		t.Fatalf("unexpected snapshots old=%v new=%v", oldState["name"], newState["name"])
	}

	if got := currentStock(t, env, product); got != 9 {
		t.Fatalf("expected corrected stock 9 got %d", got)
	}
}

func TestUpdateProductRejectsNegativeStock(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Widget", 5)

	req := *product
	req.CurrentStock = -1
	if _, err := env.catalog.UpdateProduct(product.ID, &req, "tester"); !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock got %v", err)
	}
	if got := currentStock(t, env, product); got != 5 {
		t.Fatalf("rejected update changed stock: %d", got)
	}
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)

	category := &model.Category{Name: "Electronics"}
	if err := env.catalog.CreateCategory(category, "tester"); err != nil {
		t.Fatalf("create category: %v", err)
	}

	product := &model.Product{
		Name:       "Widget",
		CategoryID: &category.ID,
	}
	if err := env.catalog.CreateProduct(product, "tester"); err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := env.catalog.DeleteCategory(category.ID, "tester"); !errors.Is(err, model.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse got %v", err)
	}

	if err := env.catalog.DeleteProduct(product.ID, "tester"); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if err := env.catalog.DeleteCategory(category.ID, "tester"); err != nil {
		t.Fatalf("delete category after products removed: %v", err)
	}
	if got := auditCount(t, env, model.ModuleCategory, model.ActionDelete); got != 1 {
		t.Fatalf("expected 1 Category DELETE entry got %d", got)
	}
}

func TestDeleteUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "Widget", 1)

	if err := env.catalog.DeleteCategory(product.ID, "tester"); !errors.Is(err, model.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound got %v", err)
	}
}
