package routes

import (
	"loyallocal/internal/adapters/http/handlers"
	"loyallocal/internal/adapters/http/middleware"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/config"
	"loyallocal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	businessRepo := repositories.NewBusinessRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	visitRepo := repositories.NewVisitRepository(db)
	profileRepo := repositories.NewCustomerProfileRepository(db)

	// Initialize services
	authService := services.NewAuthService(businessRepo, refreshTokenRepo, cfg)
	loyaltyService := services.NewLoyaltyService(businessRepo, visitRepo, profileRepo)
	customerService := services.NewCustomerService(businessRepo, visitRepo, profileRepo)
	dashboardService := services.NewDashboardService(businessRepo, visitRepo)
	portalService := services.NewPortalService(businessRepo, visitRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	settingsHandler := handlers.NewSettingsHandler(loyaltyService)
	customerHandler := handlers.NewCustomerHandler(loyaltyService, customerService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	portalHandler := handlers.NewPortalHandler(portalService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, settingsHandler,
		customerHandler, dashboardHandler, portalHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	settingsHandler *handlers.SettingsHandler,
	customerHandler *handlers.CustomerHandler,
	dashboardHandler *handlers.DashboardHandler,
	portalHandler *handlers.PortalHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Settings routes (authenticated businesses)
	settingsRoutes := router.Group("/settings")
	settingsRoutes.Use(middleware.AuthMiddleware(cfg))
	settingsRoutes.Get("/", settingsHandler.Get)
	settingsRoutes.Put("/", settingsHandler.Update)

	// Customer routes (authenticated businesses)
	customerRoutes := router.Group("/customers")
	customerRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCustomerRoutes(customerRoutes, customerHandler)

	// Dashboard routes (authenticated businesses)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/stats", dashboardHandler.Stats)
	dashboardRoutes.Get("/analytics", dashboardHandler.Analytics)

	// Portal routes (PUBLIC - strict rate limit, unauthenticated phone lookups)
	portalRoutes := router.Group("/portal")
	portalRoutes.Use(middleware.PortalRateLimiter())
	portalRoutes.Post("/lookup", portalHandler.Lookup)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupCustomerRoutes configures customer directory routes
func setupCustomerRoutes(router fiber.Router, handler *handlers.CustomerHandler) {
	router.Get("/", handler.List)
	router.Delete("/", handler.Delete)
	router.Post("/lookup", handler.Lookup)
	router.Post("/visits", handler.LogVisit)
	router.Get("/visits", handler.History)
	router.Post("/redeem", handler.Redeem)
	router.Get("/profile", handler.GetProfile)
	router.Put("/profile", handler.UpdateProfile)
}
