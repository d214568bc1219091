package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"loyallocal/internal/adapters/http/middleware"
	"loyallocal/internal/adapters/http/routes"
	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/config"
	"loyallocal/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "loyallocal/docs" // Swagger docs
)

// @title LoyalLocal API
// @version 1.0
// @description Loyalty card backend for local businesses: visit stamps, rewards and a public customer portal.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@loyallocal.ng

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.loyallocal.ng
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo data (dev mode only, opt-in via SEED_DEMO_DATA)
	if cfg.Seed.Enabled {
		if err := config.SeedDemoData(db); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Start digest service (08:30 daily report + nightly token cleanup)
	digestService := services.NewDigestService(
		repositories.NewBusinessRepository(db),
		repositories.NewVisitRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	if err := digestService.Start(); err != nil {
		log.Fatalf("❌ Failed to start digest service: %v", err)
	}
	defer digestService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LoyalLocal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
