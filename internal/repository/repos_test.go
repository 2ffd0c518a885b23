package repository

import (
	"errors"
	"fmt"
	"testing"

	"go-stockledger/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Product{}, &model.Order{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAdjustStockAppliesSignedDeltas(t *testing.T) {
	db := setupTestDB(t, t.Name())
	repo := NewProductRepo(db)

	product := &model.Product{Name: "Widget", OpeningStock: 10, CurrentStock: 10}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	stock, err := repo.AdjustStock(db, product.ID, -4, "tester")
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if stock != 6 {
		t.Fatalf("expected 6 got %d", stock)
	}

	stock, err = repo.AdjustStock(db, product.ID, 3, "tester")
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if stock != 9 {
		t.Fatalf("expected 9 got %d", stock)
	}
}

func TestAdjustStockGuardsAgainstNegative(t *testing.T) {
	db := setupTestDB(t, t.Name())
	repo := NewProductRepo(db)

	product := &model.Product{Name: "Widget", OpeningStock: 2, CurrentStock: 2}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	if _, err := repo.AdjustStock(db, product.ID, -3, "tester"); !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock got %v", err)
	}

	fresh, err := repo.FindByID(product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.CurrentStock != 2 {
		t.Fatalf("rejected delta changed stock: %d", fresh.CurrentStock)
	}

	// Draining to exactly zero is allowed.
	if stock, err := repo.AdjustStock(db, product.ID, -2, "tester"); err != nil || stock != 0 {
		t.Fatalf("expected stock 0 got %d (%v)", stock, err)
	}
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	db := setupTestDB(t, t.Name())
	repo := NewProductRepo(db)

	product := &model.Product{Name: "Widget", CurrentStock: 5}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := db.Delete(&model.Product{}, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("remove product: %v", err)
	}

	if _, err := repo.AdjustStock(db, product.ID, 1, "tester"); !errors.Is(err, model.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound got %v", err)
	}
}

func TestUpdateDeliveryRejectsStaleState(t *testing.T) {
	db := setupTestDB(t, t.Name())
	repo := NewOrderRepo(db)

	order := &model.Order{
		Quantity: 1,
		Delivery: model.Delivery{Status: model.StatusPending},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	stale := model.Delivery{Status: model.StatusConfirmed}
	err := repo.UpdateDelivery(db, order.ID, stale, model.Delivery{Status: model.StatusCancelled}, "tester")
	if !errors.Is(err, model.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate got %v", err)
	}

	// With the real previous value the guarded write goes through.
	err = repo.UpdateDelivery(db, order.ID, model.Delivery{Status: model.StatusPending}, model.Delivery{Status: model.StatusCancelled}, "tester")
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}

	fresh, err := repo.FindByID(order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Delivery.Status != model.StatusCancelled {
		t.Fatalf("expected Cancelled got %q", fresh.Delivery.Status)
	}
}

func TestUpdatePaymentUnknownOrder(t *testing.T) {
	db := setupTestDB(t, t.Name())
	repo := NewOrderRepo(db)

	order := &model.Order{Quantity: 1}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if err := db.Delete(&model.Order{}, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("remove order: %v", err)
	}

	err := repo.UpdatePayment(db, order.ID, model.Payment{}, model.Payment{Status: model.PaymentPaid}, "tester")
	if !errors.Is(err, model.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound got %v", err)
	}
}
