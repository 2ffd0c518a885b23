package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-stockledger/internal/handler"
	"go-stockledger/internal/middleware"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/service"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/database"
	applog "go-stockledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	log := applog.Get()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.Purchase{},
		&model.Order{}, &model.Expense{}, &model.AuditLog{}, &model.User{},
	); err != nil {
		log.Fatal("migration failed: ", err)
	}

	// 3. Seed default admin
	seedAdmin(db)

	// 4. Activity Feed Hub
	hub := ws.NewHub()
	go hub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	userRepo := repository.NewUserRepo(db)

	auditService := service.NewAuditService(auditRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, auditService, db)
	purchaseService := service.NewPurchaseService(purchaseRepo, productRepo, auditService, db, hub)
	orderService := service.NewOrderService(orderRepo, productRepo, auditService, db, hub)
	expenseService := service.NewExpenseService(expenseRepo, auditService, db, hub)
	authService := service.NewAuthService(userRepo)

	invHandler := handler.NewInventoryHandler(catalogService, purchaseService)
	orderHandler := handler.NewOrderHandler(orderService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	auditHandler := handler.NewAuditHandler(auditService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stock Ledger API v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)

	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog
	protected.Get("/products", invHandler.GetProducts)
	protected.Post("/products", middleware.RequireRole(model.RoleAdmin), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireRole(model.RoleAdmin), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRole(model.RoleAdmin), invHandler.DeleteProduct)

	protected.Get("/categories", invHandler.GetCategories)
	protected.Post("/categories", middleware.RequireRole(model.RoleAdmin), invHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequireRole(model.RoleAdmin), invHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequireRole(model.RoleAdmin), invHandler.DeleteCategory)

	// Purchases (incoming stock)
	protected.Get("/purchases", invHandler.GetPurchases)
	protected.Post("/purchases", invHandler.CreatePurchase)

	// Orders & payments
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Patch("/orders/:id/status", orderHandler.UpdateStatus)
	protected.Post("/orders/:id/payments", orderHandler.ApplyPayment)

	// Expenses
	protected.Get("/expenses", expenseHandler.GetExpenses)
	protected.Post("/expenses", expenseHandler.CreateExpense)
	protected.Delete("/expenses/:id", middleware.RequireRole(model.RoleAdmin), expenseHandler.DeleteExpense)

	// Audit trail
	protected.Get("/audit-logs", auditHandler.GetAuditLogs)

	// Activity feed (WebSocket)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown: ", err)
	}
	log.Info("server exited")
}

// seedAdmin creates the default admin user if it doesn't exist yet
func seedAdmin(db *gorm.DB) {
	log := applog.Get()
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		log.Warn("failed to hash admin password: ", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user: ", err)
	} else {
		log.Info("admin user created: ", email)
	}
}
