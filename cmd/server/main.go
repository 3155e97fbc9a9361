package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"smartlio/internal/config"
	"smartlio/internal/database"
	"smartlio/internal/handlers"
	"smartlio/internal/logger"
	"smartlio/internal/metrics"
	"smartlio/internal/repository"
	"smartlio/internal/security"
	"smartlio/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(logger.Settings{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logr.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logr.WithField("type", db.Dialect.Name()).Info("Database connection established")

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		logr.WithError(err).Fatal("Failed to run migrations")
	}

	version, dirty, err := db.SchemaVersion()
	if err != nil {
		logr.WithError(err).Fatal("Failed to read schema version")
	}
	logr.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Migrations completed successfully")

	// Seed demo helplines
	inserted, err := db.SeedHelplines(context.Background())
	if err != nil {
		logr.WithError(err).Fatal("Failed to seed helplines")
	}
	if inserted > 0 {
		logr.WithField("count", inserted).Info("Seeded demo helplines")
	}

	m := metrics.New()

	// Initialize repositories
	familyRepo := repository.NewFamilyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	helplineRepo := repository.NewHelplineRepository(db)
	businessRepo := repository.NewBusinessRepository(db)

	// Initialize services
	directoryService := service.NewDirectoryService(familyRepo, memberRepo, m, logr)
	helplineService := service.NewHelplineService(helplineRepo)
	sosService := service.NewSOSService(helplineRepo, memberRepo, m, logr)
	businessService := service.NewBusinessService(businessRepo)

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	var writeLimiter *security.RateLimiter
	if cfg.RateLimitRequests > 0 {
		writeLimiter = security.NewRateLimiter(limiterCtx, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Family:         handlers.NewFamilyHandler(directoryService, logr),
		Helpline:       handlers.NewHelplineHandler(helplineService, sosService, logr),
		Business:       handlers.NewBusinessHandler(businessService, logr),
		System:         handlers.NewSystemHandler(db, cfg.StaticFilesPath, logr),
		Metrics:        m,
		Logger:         logr,
		StaticPath:     cfg.StaticFilesPath,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		WriteLimiter:   writeLimiter,
	})

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.WithField("addr", addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logr.WithError(err).Error("Graceful shutdown failed")
	}
}
