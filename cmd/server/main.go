package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acara-backend/internal/config"
	"acara-backend/internal/database"
	"acara-backend/internal/handler"
	"acara-backend/internal/hasher"
	"acara-backend/internal/interfaces"
	"acara-backend/internal/logger"
	"acara-backend/internal/mail"
	"acara-backend/internal/messaging"
	"acara-backend/internal/notification"
	"acara-backend/internal/service"
	"acara-backend/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Env:      cfg.Env,
		Service:  "acara-api",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))
	zap.L().Info("Configuration loaded",
		zap.String("storeDriver", cfg.StoreDriver),
		zap.String("notificationTransport", cfg.NotificationTransport),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// --- Dependency Injection ---
	store, err := setupStore(startupCtx, cfg, log, &closers)
	if err != nil {
		zap.L().Fatal("Failed to set up account store", zap.Error(err))
	}

	passwordHasher, err := hasher.New(cfg.HashScheme, cfg.PasswordPepper)
	if err != nil {
		zap.L().Fatal("Failed to set up password hasher", zap.Error(err))
	}

	tokenManager, err := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		zap.L().Fatal("Failed to set up token manager", zap.Error(err))
	}

	notifier, err := setupNotifier(startupCtx, cfg, log, &closers)
	if err != nil {
		zap.L().Fatal("Failed to set up registration notifier", zap.Error(err))
	}

	authSvc := service.NewAuthService(store, passwordHasher, tokenManager, notifier, service.Options{
		LoginRequireActive:  cfg.LoginRequireActive,
		NotificationTimeout: cfg.NotificationTimeout,
	}, log)
	authHandler := handler.NewAuthHandler(authSvc)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := newRouter(cfg, log, authHandler)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	notifyCtx, notifyCancel := context.WithTimeout(context.Background(), cfg.NotificationTimeout)
	defer notifyCancel()
	if err := authSvc.Shutdown(notifyCtx); err != nil {
		zap.L().Warn("Pending activation notifications abandoned", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupStore builds the account store selected by STORE_DRIVER, optionally
// wrapped in the Redis read-through cache.
func setupStore(ctx context.Context, cfg *config.Config, log *zap.Logger, closers *[]func()) (interfaces.AccountStore, error) {
	var store interfaces.AccountStore

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		zap.L().Warn("Using in-memory account store; data is lost on restart")
		store = database.NewMemoryAccountRepository(log)
	case config.StoreDriverPostgres:
		pool, err := database.ConnectAndMigrate(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, database.DefaultRetryPolicy, log)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, pool.Close)
		zap.L().Info("Connected to PostgreSQL")
		store = database.NewPgAccountRepository(pool, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if !cfg.RedisEnabled {
		return store, nil
	}

	redisClient, err := database.ConnectRedis(ctx, &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, database.DefaultRetryPolicy, log)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, func() { _ = redisClient.Close() })
	zap.L().Info("Connected to Redis", zap.Duration("cacheTTL", cfg.CacheTTL))

	return database.NewCachedAccountStore(store, redisClient, cfg.CacheTTL, log), nil
}

// setupNotifier builds the transport selected by NOTIFICATION_TRANSPORT.
func setupNotifier(ctx context.Context, cfg *config.Config, log *zap.Logger, closers *[]func()) (interfaces.RegistrationNotifier, error) {
	switch cfg.NotificationTransport {
	case config.TransportLog:
		return notification.NewLogNotifier(cfg.ActivationLink, log), nil
	case config.TransportSMTP:
		renderer, err := mail.NewRenderer()
		if err != nil {
			return nil, err
		}
		sender := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, log)
		return notification.NewMailNotifier(renderer, sender, cfg.ActivationLink, log), nil
	case config.TransportAMQP:
		conn, err := messaging.Dial(ctx, cfg.RabbitMQURL, 50, 5*time.Second, log)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { _ = conn.Close() })
		return messaging.NewActivationPublisher(conn, cfg.ActivationQueue, log)
	default:
		return nil, fmt.Errorf("unknown notification transport %q", cfg.NotificationTransport)
	}
}
