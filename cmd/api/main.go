package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"smart-inventory-api/internal/handler"
	"smart-inventory-api/internal/mailer"
	"smart-inventory-api/internal/middleware"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/internal/service"
	"smart-inventory-api/internal/ws"
	"smart-inventory-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Product{}, &model.StockHistoryEntry{}, &model.StoredAlert{},
		&model.Transaction{}, &model.User{}, &model.SystemSettings{},
		&model.SystemLog{},
	); err != nil {
		log.Fatal("Migration failed: ", err)
	}
	applyIndexes(db)

	// 3. Seed settings singleton and the default admin
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	logRepo := repository.NewSystemLogRepo(db)

	mail := mailer.NewFromEnv()

	settingsService := service.NewSettingsService(settingsRepo, userRepo)
	alertService := service.NewAlertService(alertRepo, productRepo, settingsService, mail, wsHub)
	invService := service.NewInventoryService(productRepo, txRepo, settingsService, alertService, db, wsHub)
	authService := service.NewAuthService(userRepo, logRepo, mail)
	userService := service.NewUserService(userRepo)
	dashService := service.NewDashboardService(txRepo, settingsService)
	reportService := service.NewReportService(productRepo, txRepo, alertRepo)

	alertHandler := handler.NewAlertHandler(alertService)
	invHandler := handler.NewInventoryHandler(invService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService, logRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	reportHandler := handler.NewReportHandler(reportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Smart Inventory API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes

	// Auth
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/verify", authHandler.Verify)
	app.Post("/auth/resend-code", authHandler.ResendCode)
	app.Post("/forgot-password/verify-email", authHandler.ForgotPassword)

	// Profile settings
	app.Get("/settings", authHandler.GetProfile)
	app.Post("/settings/update", authHandler.UpdateProfile)

	// Products. Static paths registered before the parameterized ones.
	app.Get("/products", invHandler.GetProducts)
	app.Get("/products/low-stock", invHandler.GetLowStockProducts)
	app.Post("/products", invHandler.CreateProduct)
	app.Put("/products/:id", invHandler.UpdateProduct)
	app.Patch("/products/:id/stock", invHandler.AdjustStock)

	// Transactions and sales
	app.Get("/transactions", invHandler.GetTransactions)
	app.Post("/transactions", invHandler.CreateTransaction)
	app.Put("/transactions/:id/status", invHandler.UpdateTransactionStatus)
	app.Get("/sales/today", dashHandler.GetTodaySales)
	app.Get("/sales/trend", dashHandler.GetSalesTrend)

	// Stored alerts
	app.Post("/stored-alerts", alertHandler.CreateStoredAlert)
	app.Get("/stored-alerts", alertHandler.GetStoredAlerts)
	app.Get("/stored-alerts/unread", alertHandler.GetUnreadAlerts)
	app.Put("/stored-alerts/mark-all-read", alertHandler.MarkAllRead)
	app.Put("/stored-alerts/:id/read", alertHandler.MarkRead)
	app.Put("/stored-alerts/:id/resolve", alertHandler.ResolveAlert)
	app.Get("/alert", alertHandler.GetComputedAlerts)

	// System settings
	app.Get("/system-settings", settingsHandler.GetSettings)
	app.Post("/system-settings/update", settingsHandler.UpdateSettings)

	// Dashboard and reports
	app.Get("/dashboard/stats", dashHandler.GetStats)
	app.Get("/reports/live-export", reportHandler.LiveExport)

	// User management. Mutations are admin-only.
	requireAuth := middleware.RequireAuth(userRepo)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)
	app.Get("/users", userHandler.GetUsers)
	app.Post("/users", requireAuth, requireAdmin, userHandler.CreateUser)
	app.Put("/users/:id", requireAuth, requireAdmin, userHandler.UpdateUser)
	app.Put("/users/:id/status", requireAuth, requireAdmin, userHandler.SetUserStatus)
	app.Get("/system-logs", requireAuth, requireAdmin, settingsHandler.GetSystemLogs)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

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
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// applyIndexes creates the constraints AutoMigrate cannot express. The
// partial unique index makes alert dedup atomic: at most one unresolved
// alert per product name can exist.
func applyIndexes(db *gorm.DB) {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_open_name ON stored_alerts (name) WHERE status <> 'Resolved'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_ci ON products (LOWER(name))`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}
}

// seedDefaults creates the settings row and the default admin if missing.
func seedDefaults(db *gorm.DB) {
	settingsRepo := repository.NewSettingsRepo(db)
	userRepo := repository.NewUserRepo(db)

	if _, err := settingsRepo.Get(); err != nil {
		log.Printf("Warning: Failed to seed system settings: %v", err)
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		admin := &model.User{
			Email:    "admin@example.com",
			FullName: "Administrator",
			Role:     model.RoleAdmin,
		}
		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123")
		}
	}
}
