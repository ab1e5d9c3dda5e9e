package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/api/handlers"
	rediscache "github.com/reviewlens/backend/internal/cache/redis"
	"github.com/reviewlens/backend/internal/metrics"
	"github.com/reviewlens/backend/internal/middleware/ratelimit"
	"github.com/reviewlens/backend/internal/middleware/security"
	"github.com/reviewlens/backend/internal/pipeline"
	"github.com/reviewlens/backend/internal/storage/sqlite"
	"github.com/reviewlens/backend/pkg/config"
	appLogger "github.com/reviewlens/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ReviewLens API Server")

	metrics.Init()

	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0755); err != nil {
		appLogger.Fatal("Failed to create data directory", zap.Error(err))
	}

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cache pipeline.ResultCache
	if cfg.Redis.Enabled {
		cacheClient, err := rediscache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLHours)*time.Hour,
		)
		if err != nil {
			appLogger.Warn("Cache unavailable, continuing without it", zap.Error(err))
		} else {
			defer cacheClient.Close()
			cache = cacheClient
		}
	}

	analysisPipeline := pipeline.New(cfg, sqliteClient, cache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Server.RateLimit,
		Logger:               appLogger.Log,
	})
	defer limiter.Stop()

	analysisHandler := handlers.NewAnalysisHandler(analysisPipeline, filepath.Join(cfg.Artifacts.OutputDir, "uploads"))
	runsHandler := handlers.NewRunsHandler(sqliteClient)

	api := app.Group("/api/v1", limiter.Middleware())

	api.Post("/analyze", analysisHandler.HandleAnalyze)
	api.Get("/runs", runsHandler.ListRuns)
	api.Get("/runs/:id", runsHandler.GetRun)
	api.Get("/runs/:id/report", runsHandler.GetReport)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())
	app.Static("/artifacts", cfg.Artifacts.OutputDir)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
