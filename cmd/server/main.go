package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iledu-loan/internal/adapters/cache"
	"iledu-loan/internal/adapters/http/middleware"
	"iledu-loan/internal/adapters/http/routes"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/adapters/storage"
	"iledu-loan/internal/config"
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "iledu-loan/docs" // Swagger docs
)

// @title iLEdu Loan API
// @version 1.0
// @description Education loan intake: eligibility, staged application, document upload and review.

// @contact.name API Support
// @contact.email support@iledu.in

// @host api.iledu.in
// @BasePath /api
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("failed to load configuration", zap.Error(err))
	}

	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zl.Sync() }()
	log := logger.NewZapAdapter(zl)

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = config.CloseDatabase() }()

	store, err := newObjectStore(cfg)
	if err != nil {
		zl.Fatal("failed to configure object storage", zap.Error(err))
	}

	deps := routes.Deps{
		DB:      db,
		Config:  cfg,
		Store:   store,
		Metrics: metrics.New("iledu_loan"),
		Log:     log,
	}

	if cfg.Redis.Address != "" {
		redisStorage, err := cache.NewRedisStorage(cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisStorage.Close() }()
		deps.Limiter = redisStorage
		deps.Cache = redisStorage
	}

	profileRepo := repositories.NewProfileRepository(db)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	config.NewSeeder(profileRepo, cfg.Seed, log).Run(seedCtx)
	cancelSeed()

	cronService := services.NewCronService(repositories.NewRefreshTokenRepository(db), log, services.DefaultPurgeSchedule)
	if err := cronService.Start(); err != nil {
		zl.Fatal("failed to start cron", zap.Error(err))
	}
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "iLEdu Loan API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    cfg.BodyLimit(),
	})

	middleware.Setup(app, cfg, deps.Limiter)
	routes.Setup(app, deps)

	go gracefulShutdown(app, zl)

	zl.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

// newObjectStore returns S3 when a bucket is configured. Without one the
// documents stay in memory, which config validation only allows in dev.
func newObjectStore(cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.Storage.Bucket == "" {
		return storage.NewMemoryStore("local"), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return storage.NewS3Store(ctx, storage.S3Config{
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Endpoint:        cfg.Storage.Endpoint,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
}

func gracefulShutdown(app *fiber.App, zl *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
	zl.Info("server stopped")
}
