package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/application/bridge"
	"github.com/syncbridge/backend/internal/domain/integration"
	"github.com/syncbridge/backend/internal/infrastructure/cache"
	"github.com/syncbridge/backend/internal/infrastructure/checkpoint"
	"github.com/syncbridge/backend/internal/infrastructure/config"
	"github.com/syncbridge/backend/internal/infrastructure/crm"
	"github.com/syncbridge/backend/internal/infrastructure/inventory"
	"github.com/syncbridge/backend/internal/infrastructure/logger"
	"github.com/syncbridge/backend/internal/infrastructure/notify"
	"github.com/syncbridge/backend/internal/infrastructure/scheduler"
	"github.com/syncbridge/backend/internal/interfaces/http/handler"
	"github.com/syncbridge/backend/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting sync bridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// External system clients
	crmClient := crm.NewClient(crm.Config{
		InstanceURL: cfg.CRM.InstanceURL,
		APIVersion:  cfg.CRM.APIVersion,
		AccessToken: cfg.CRM.AccessToken,
		Timeout:     cfg.HTTP.ClientTimeout,
	}, log)

	invClient := inventory.NewClient(inventory.Config{
		BaseURL:               cfg.Inventory.BaseURL,
		CompanyID:             cfg.Inventory.CompanyID,
		Token:                 cfg.Inventory.Token,
		APIVersion:            cfg.Inventory.APIVersion,
		WebhookSubscriptionID: cfg.Inventory.WebhookSubscriptionID,
		Timeout:               cfg.HTTP.ClientTimeout,
	}, log)

	// Optional durable checkpoint store
	var checkpoints *checkpoint.Store
	if cfg.Checkpoint.Enabled {
		checkpoints, err = checkpoint.Open(cfg.Checkpoint.Path)
		if err != nil {
			log.Fatal("Failed to open checkpoint store", zap.Error(err))
		}
		defer func() {
			if err := checkpoints.Close(); err != nil {
				log.Error("Error closing checkpoint store", zap.Error(err))
			}
		}()
		log.Info("Checkpoint store opened", zap.String("path", cfg.Checkpoint.Path))
	}

	// Idempotency store for processed order numbers
	var dedup integration.IdempotencyStore
	switch cfg.Dedup.Backend {
	case "redis":
		dedup, err = cache.NewRedisIdempotencyStore(cache.RedisOptions{
			Host:     cfg.Dedup.Redis.Host,
			Port:     cfg.Dedup.Redis.Port,
			Password: cfg.Dedup.Redis.Password,
			DB:       cfg.Dedup.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
	case "sqlite":
		dedup = checkpoints
	default:
		dedup = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := dedup.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	log.Info("Idempotency store ready", zap.String("backend", cfg.Dedup.Backend))

	// Notification channel
	var notifier bridge.Notifier
	if cfg.Slack.Token != "" {
		notifier = notify.NewSlackNotifier(cfg.Slack.Token, cfg.Slack.Channel, log)
		log.Info("Slack notifications enabled", zap.String("channel", cfg.Slack.Channel))
	} else {
		notifier = notify.NewNopNotifier()
		log.Info("Slack notifications disabled")
	}

	// Sync engine
	translator := bridge.NewTranslator(crmClient, invClient, log)
	orderDetector := bridge.NewOrderDetector(crmClient, cfg.Sync.OrderWindow, log)
	customerDetector := bridge.NewCustomerDetector(crmClient, cfg.Sync.CustomerWindow, log)
	productDetector := bridge.NewProductTransitionDetector(invClient, cfg.Sync.ProductWindow, log)

	var checkpointStore bridge.CheckpointStore
	if checkpoints != nil {
		checkpointStore = checkpoints
	}
	service := bridge.NewService(
		orderDetector,
		customerDetector,
		productDetector,
		translator,
		crmClient,
		invClient,
		notifier,
		checkpointStore,
		log,
	)

	propagator := bridge.NewPropagator(
		invClient,
		crmClient,
		dedup,
		notifier,
		cfg.Location(),
		cfg.Sync.ShipTolerance,
		cfg.Dedup.TTL,
		log,
	)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	service.Restore(startCtx)
	productDetector.Seed(startCtx)
	if err := invClient.SubscribeWebhook(startCtx, cfg.App.PublicURL); err != nil {
		log.Error("Webhook subscription failed, relying on polling only", zap.Error(err))
	}
	startCancel()

	// Periodic sync ticks
	syncScheduler := scheduler.NewIntervalScheduler(cfg.Sync.Interval, service, log)
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP surface
	engine := router.Setup(log, router.Handlers{
		Webhook: handler.NewWebhookHandler(propagator, log),
		Health:  handler.NewHealthHandler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
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

	if err := syncScheduler.Stop(ctx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
