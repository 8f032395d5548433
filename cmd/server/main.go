package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	applinking "github.com/channelbridge/backend/internal/application/linking"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/infrastructure/cache"
	"github.com/channelbridge/backend/internal/infrastructure/config"
	"github.com/channelbridge/backend/internal/infrastructure/logger"
	"github.com/channelbridge/backend/internal/infrastructure/marketplace"
	"github.com/channelbridge/backend/internal/infrastructure/persistence"
	"github.com/channelbridge/backend/internal/interfaces/http/handler"
	"github.com/channelbridge/backend/internal/interfaces/http/middleware"
	"github.com/channelbridge/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ChannelBridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	linkRepo := persistence.NewGormLinkRepository(db.DB)
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)

	// Marketplace data source: without a lookup API the deterministic
	// in-process source stands in
	var source linking.MarketplaceDataSource
	if cfg.Marketplace.BaseURL != "" {
		restSource, err := marketplace.NewRESTDataSource(&marketplace.RESTConfig{
			BaseURL: cfg.Marketplace.BaseURL,
			APIKey:  cfg.Marketplace.APIKey,
			Timeout: cfg.Marketplace.RequestTimeout,
		})
		if err != nil {
			log.Fatal("Failed to initialize marketplace data source", zap.Error(err))
		}
		source = restSource
		log.Info("Marketplace REST data source configured",
			zap.String("base_url", cfg.Marketplace.BaseURL))
	} else {
		source = marketplace.NewDeterministicDataSource(cfg.Marketplace.MatchRate)
		log.Info("Marketplace deterministic data source configured",
			zap.Float64("match_rate", cfg.Marketplace.MatchRate))
	}

	// Statistics cache (optional)
	var statsCache applinking.StatsCache
	if cfg.Stats.CacheEnabled {
		redisCache, err := cache.NewRedisStatsCache(
			cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Stats.CacheTTL, log)
		if err != nil {
			log.Warn("Stats cache unavailable, continuing without it", zap.Error(err))
		} else {
			statsCache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Error("Error closing stats cache", zap.Error(err))
				}
			}()
			log.Info("Stats cache connected", zap.Duration("ttl", cfg.Stats.CacheTTL))
		}
	}

	// Initialize application services
	syncService := applinking.NewHierarchySyncService(linkRepo, catalogRepo, accountRepo, log)
	rebuildService := applinking.NewRebuildService(linkRepo, catalogRepo, log)
	validatorService := applinking.NewValidatorService(linkRepo, accountRepo, log)
	repairService := applinking.NewRepairService(linkRepo, catalogRepo, validatorService, log)
	autoLinkService := applinking.NewAutoLinkService(linkRepo, catalogRepo, accountRepo, source, syncService, log)
	statsService := applinking.NewStatsService(linkRepo, accountRepo, statsCache, log)
	adminService := applinking.NewAdminService(linkRepo, log)

	// Initialize HTTP handlers
	linkHandler := handler.NewLinkHandler(
		syncService,
		rebuildService,
		validatorService,
		repairService,
		autoLinkService,
		statsService,
		adminService,
	)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(linkHandler).Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
