package service

import (
	"fmt"
	"testing"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/shopspring/decimal"
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
	// sqlite allows one writer; funnel everything through one connection so
	// concurrent transactions queue instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.Purchase{},
		&model.Order{}, &model.Expense{}, &model.AuditLog{}, &model.User{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	products  repository.ProductRepository
	orders    OrderService
	purchases PurchaseService
	catalog   CatalogService
	expenses  ExpenseService
	audit     AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t, t.Name())

	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	audit := NewAuditService(auditRepo)
	return &testEnv{
		db:        db,
		products:  productRepo,
		orders:    NewOrderService(orderRepo, productRepo, audit, db, nil),
		purchases: NewPurchaseService(purchaseRepo, productRepo, audit, db, nil),
		catalog:   NewCatalogService(productRepo, categoryRepo, audit, db),
		expenses:  NewExpenseService(expenseRepo, audit, db, nil),
		audit:     audit,
	}
}

func seedProduct(t *testing.T, env *testEnv, name string, stock int) *model.Product {
	product := &model.Product{
		Name:         name,
		CostPrice:    decimal.NewFromInt(200),
		SellPrice:    decimal.NewFromInt(300),
		OpeningStock: stock,
		CurrentStock: stock,
	}
	if err := env.db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func currentStock(t *testing.T, env *testEnv, product *model.Product) int {
	fresh, err := env.products.FindByID(product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return fresh.CurrentStock
}

func auditCount(t *testing.T, env *testEnv, module model.AuditModule, action model.AuditAction) int64 {
	var count int64
	if err := env.db.Model(&model.AuditLog{}).
		Where("module = ? AND action = ?", module, action).
		Count(&count).Error; err != nil {
		t.Fatalf("count audit logs: %v", err)
	}
	return count
}
