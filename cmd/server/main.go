package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	paymentapp "github.com/aqarcrm/backend/internal/application/payment"
	settingsapp "github.com/aqarcrm/backend/internal/application/settings"
	"github.com/aqarcrm/backend/internal/domain/settings"
	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/aqarcrm/backend/internal/infrastructure/cache"
	"github.com/aqarcrm/backend/internal/infrastructure/config"
	"github.com/aqarcrm/backend/internal/infrastructure/logger"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence/models"
	"github.com/aqarcrm/backend/internal/interfaces/http/handler"
	"github.com/aqarcrm/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting AqarCRM payments backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := db.DB.AutoMigrate(
		&models.CollectionPaymentModel{},
		&models.SupplyPaymentModel{},
		&models.SettingModel{},
		&models.LedgerEntryModel{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Settings cache: Redis when reachable, in-memory otherwise.
	cacheFactory := cache.NewSettingsCacheFactory(cfg.Redis, cache.WithLogger(log))
	settingsCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create settings cache", zap.Error(err))
	}

	// Repositories
	collectionRepo := persistence.NewGormCollectionPaymentRepository(db.DB)
	supplyRepo := persistence.NewGormSupplyPaymentRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	settingsStore := settings.NewCachedStore(settingRepo, settingsCache)

	// Application services
	collectionService := paymentapp.NewCollectionPaymentService(
		collectionRepo, settingsStore, txScope,
		paymentapp.WithCollectionLogger(log),
	)
	supplyService := paymentapp.NewSupplyPaymentService(
		supplyRepo, supply.NewStandardFeeCalculator(), settingsStore,
		paymentapp.WithSupplyLogger(log),
	)
	settingsService := settingsapp.NewService(settingsStore, settingsapp.WithLogger(log))

	engine := router.Setup(cfg, log, router.Handlers{
		Collection: handler.NewCollectionPaymentHandler(collectionService),
		Supply:     handler.NewSupplyPaymentHandler(supplyService),
		Settings:   handler.NewSettingsHandler(settingsService),
		System:     handler.NewSystemHandler(db),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
