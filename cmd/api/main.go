package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brewpoints/loyalty-backend/api/routes"
	"github.com/brewpoints/loyalty-backend/internal/config"
	"github.com/brewpoints/loyalty-backend/internal/engine"
	"github.com/brewpoints/loyalty-backend/internal/handlers"
	"github.com/brewpoints/loyalty-backend/internal/logger"
	"github.com/brewpoints/loyalty-backend/internal/notify"
	"github.com/brewpoints/loyalty-backend/internal/services"
	"github.com/brewpoints/loyalty-backend/internal/storage"
	storagemongo "github.com/brewpoints/loyalty-backend/internal/storage/mongodb"
	"github.com/brewpoints/loyalty-backend/pkg/jwt"
	"github.com/brewpoints/loyalty-backend/pkg/mongodb"
	"github.com/brewpoints/loyalty-backend/pkg/paymentgateway"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	// Select the persistence driver
	var (
		customerStore    storage.CustomerStore
		notificationRepo storage.NotificationRepository
	)
	switch cfg.Storage.Driver {
	case "mongodb":
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			appLog.Fatalw("failed to connect to MongoDB", "error", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLog.Warnw("error disconnecting from MongoDB", "error", err)
			}
		}()
		db := mongoClient.Database(cfg.MongoDB.Database)
		customerStore = storagemongo.NewCustomerStore(db)
		notificationRepo = storagemongo.NewNotificationRepository(db)
	case "memory":
		customerStore = storage.NewMemoryStore()
		notificationRepo = storage.NewMemoryNotificationRepository()
	default:
		customerStore = storage.NewFileStore(cfg.Storage.FilePath)
		notificationRepo = storage.NewMemoryNotificationRepository()
	}

	gateway := paymentgateway.NewSimulatedGateway(
		cfg.Gateway.MinDelay, cfg.Gateway.MaxDelay, cfg.Gateway.FailureRate)
	notifier := notify.NewLogNotifier(appLog)

	sessionEngine := engine.New(cfg.Engine, customerStore, gateway, notifier,
		notificationRepo, engine.SystemClock{}, appLog)
	sessionEngine.Start()
	defer sessionEngine.Close()

	tokens := jwt.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	authService := services.NewAuthService(cfg.Auth, tokens)
	notificationService := services.NewNotificationService(notificationRepo)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		CustomerHandler:     handlers.NewCustomerHandler(sessionEngine),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
	}

	router := routes.SetupRouter(cfg, appLog, tokens, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	appLog.Infow("server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatalw("listen failed", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatalw("server forced to shutdown", "error", err)
	}

	appLog.Infow("server exiting")
}
