package routes

import (
	"coderr-backend/internal/adapters/http/handlers"
	"coderr-backend/internal/adapters/http/middleware"
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/config"
	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, store storage.Store) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewAuthTokenRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenRepo, cfg)
	profileService := services.NewProfileService(userRepo, store)
	offerService := services.NewOfferService(offerRepo, store)
	orderService := services.NewOrderService(orderRepo, offerRepo, userRepo)
	reviewService := services.NewReviewService(reviewRepo, userRepo)
	statsService := services.NewStatsService(userRepo, offerRepo, reviewRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	offerHandler := handlers.NewOfferHandler(offerService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	statsHandler := handlers.NewStatsHandler(statsService)

	requireAuth := middleware.AuthMiddleware(authService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded media
	app.Static(cfg.Media.URL, cfg.Media.Dir)

	setupAuthRoutes(app, authHandler, profileHandler, requireAuth, cfg)
	setupProfileRoutes(app, profileHandler, requireAuth)
	setupOfferRoutes(app, offerHandler, requireAuth)
	setupOrderRoutes(app, orderHandler, requireAuth)
	setupReviewRoutes(app, reviewHandler, requireAuth)

	// Public marketplace summary
	app.Get("/base-info/", statsHandler.BaseInfo)
}

// setupAuthRoutes configures registration, login and session routes
func setupAuthRoutes(
	router fiber.Router,
	handler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	requireAuth fiber.Handler,
	cfg *config.Config,
) {
	noCache := middleware.PrivateNoStore()
	authLimiter := middleware.AuthRateLimiter(cfg)

	// Public routes
	router.Post("/registration/", authLimiter, noCache, handler.Register)
	router.Post("/login/", authLimiter, noCache, handler.Login)

	// Protected routes
	router.Post("/logout/", requireAuth, handler.Logout)
	router.Get("/me/", requireAuth, noCache, profileHandler.Me)
}

// setupProfileRoutes configures profile routes (authenticated users)
func setupProfileRoutes(router fiber.Router, handler *handlers.ProfileHandler, requireAuth fiber.Handler) {
	router.Use("/profile", middleware.PrivateNoStore())

	router.Get("/profile/:id/", requireAuth, handler.Get)
	router.Patch("/profile/:id/", requireAuth, handler.Update)
	router.Put("/profile/:id/file/", requireAuth, handler.UploadFile)

	router.Get("/profiles/business/", requireAuth, handler.ListBusiness)
	router.Get("/profiles/customer/", requireAuth, handler.ListCustomer)
}

// setupOfferRoutes configures offer routes; reads are public
func setupOfferRoutes(router fiber.Router, handler *handlers.OfferHandler, requireAuth fiber.Handler) {
	router.Get("/offers/", handler.List)
	router.Post("/offers/", requireAuth, handler.Create)
	router.Get("/offers/:id/", handler.Get)
	router.Patch("/offers/:id/", requireAuth, handler.Update)
	router.Delete("/offers/:id/", requireAuth, handler.Delete)

	router.Get("/offerdetails/:id/", handler.GetDetail)
}

// setupOrderRoutes configures order routes (authenticated users)
func setupOrderRoutes(router fiber.Router, handler *handlers.OrderHandler, requireAuth fiber.Handler) {
	router.Get("/orders/", requireAuth, handler.List)
	router.Post("/orders/", requireAuth, handler.Create)
	router.Patch("/orders/:id/", requireAuth, handler.UpdateStatus)
	router.Delete("/orders/:id/", requireAuth, middleware.StaffOnly(), handler.Delete)

	router.Get("/order-count/:id/", requireAuth, handler.InProgressCount)
	router.Get("/completed-order-count/:id/", requireAuth, handler.CompletedCount)
}

// setupReviewRoutes configures review routes (authenticated users)
func setupReviewRoutes(router fiber.Router, handler *handlers.ReviewHandler, requireAuth fiber.Handler) {
	router.Get("/reviews/", requireAuth, handler.List)
	router.Post("/reviews/", requireAuth, handler.Create)
	router.Get("/reviews/:id/", requireAuth, handler.Get)
	router.Patch("/reviews/:id/", requireAuth, handler.Update)
	router.Delete("/reviews/:id/", requireAuth, handler.Delete)
}
