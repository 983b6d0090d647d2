package routes

import (
	"iledu-loan/internal/adapters/http/handlers"
	"iledu-loan/internal/adapters/http/middleware"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/adapters/storage"
	"iledu-loan/internal/config"
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/core/workflow"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/metrics"
	"iledu-loan/internal/pkg/resilience"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Deps are the long-lived resources built in main.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Store   storage.ObjectStore
	Metrics *metrics.Metrics
	Log     logger.Logger
	// Limiter backs rate limit counters; nil keeps them in memory.
	Limiter fiber.Storage
	// Cache is probed by /health when Redis is configured.
	Cache handlers.Pinger
}

// Setup configures all routes for the application
func Setup(app *fiber.App, d Deps) {
	cfg := d.Config

	// Repositories
	profileRepo := repositories.NewProfileRepository(d.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(d.DB)
	applicationRepo := repositories.NewLoanApplicationRepository(d.DB)
	familyRepo := repositories.NewFamilyRepository(d.DB)
	documentRepo := repositories.NewDocumentRepository(d.DB)

	// Services
	resolver := services.NewProfileResolver(profileRepo, cfg.Intake.IdentityTimeout)
	validator := workflow.NewValidator(nil)
	executor := resilience.NewExecutor(cfg.Resilience, d.Log)

	authService := services.NewAuthService(profileRepo, refreshTokenRepo, cfg, d.Log)
	loanService := services.NewLoanService(resolver, applicationRepo, validator, d.Metrics, d.Log, cfg.Intake.PersistTimeout)
	submissionService := services.NewSubmissionService(
		resolver,
		applicationRepo,
		documentRepo,
		d.Store,
		executor,
		validator,
		d.Metrics,
		d.Log,
		services.SubmissionConfig{
			Policy:         cfg.Intake.UploadPolicy,
			Concurrency:    cfg.Intake.UploadConcurrency,
			UploadTimeout:  cfg.Intake.UploadTimeout,
			PersistTimeout: cfg.Intake.PersistTimeout,
			MaxFileSize:    cfg.MaxFileSize(),
		},
	)
	reviewService := services.NewReviewService(applicationRepo, familyRepo, documentRepo, d.Metrics, d.Log)
	dashboardService := services.NewDashboardService(applicationRepo, d.Log)
	profileService := services.NewProfileService(profileRepo, refreshTokenRepo, d.Log)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg, handlers.PingFunc(config.HealthCheck), d.Cache)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	loanHandler := handlers.NewLoanHandler(loanService, submissionService, d.Log)
	adminHandler := handlers.NewAdminHandler(reviewService, d.Log)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, d.Log)
	profileHandler := handlers.NewProfileHandler(profileService, d.Log)

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.Metrics(d.Metrics))

	setupAuthRoutes(api.Group("/auth"), authHandler, profileHandler, cfg, d.Limiter)
	setupLoanRoutes(api.Group("/loan"), loanHandler, cfg, d.Limiter)
	setupAdminRoutes(api.Group("/admin"), adminHandler, dashboardHandler, profileHandler, cfg)
}

func setupAuthRoutes(
	router fiber.Router,
	h *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	cfg *config.Config,
	limiter fiber.Storage,
) {
	router.Post("/register", middleware.AuthRateLimiter(limiter), h.Register)
	router.Post("/login", middleware.AuthRateLimiter(limiter), h.Login)
	router.Post("/refresh", h.RefreshToken)
	router.Post("/logout", h.Logout)

	router.Post("/logout-all", middleware.AuthMiddleware(cfg), h.LogoutAll)
	router.Get("/me", middleware.AuthMiddleware(cfg), h.Me)
	router.Put("/profile", middleware.AuthMiddleware(cfg), profileHandler.UpdateProfile)
	router.Put("/password", middleware.AuthMiddleware(cfg), middleware.AuthRateLimiter(limiter), profileHandler.ChangePassword)
}

func setupLoanRoutes(router fiber.Router, h *handlers.LoanHandler, cfg *config.Config, limiter fiber.Storage) {
	// vocabulary is public so the form can render before sign-in
	router.Get("/occupations", h.Occupations)

	router.Use(middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())
	router.Get("/canApply", h.CanApply)
	router.Get("/getApplications", h.GetApplications)
	router.Post("/validateStage", h.ValidateStage)
	router.Post("/uploadDetails", middleware.SubmissionRateLimiter(limiter), h.UploadDetails)
}

func setupAdminRoutes(
	router fiber.Router,
	h *handlers.AdminHandler,
	dashboardHandler *handlers.DashboardHandler,
	profileHandler *handlers.ProfileHandler,
	cfg *config.Config,
) {
	router.Use(middleware.AuthMiddleware(cfg), middleware.ReviewerOrAdmin())

	router.Get("/dashboard", dashboardHandler.GetSummary)

	router.Get("/applications", h.ListApplications)
	router.Get("/applications/export", h.ExportApplications)
	router.Get("/applications/:id", h.GetApplication)
	router.Put("/applications/:id/status", h.UpdateStatus)

	router.Put("/profiles/:id/role", middleware.AdminOnly(), profileHandler.SetRole)
}
