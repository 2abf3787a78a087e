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

	"acara-backend/internal/logger"
	"acara-backend/internal/mail"
	"acara-backend/internal/mailer"
	"acara-backend/internal/messaging"
	"acara-backend/internal/notification"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("MAILER_CONFIG")
	if configPath == "" {
		configPath = mailer.DefaultConfigPath
	}

	cfg, err := mailer.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load mailer configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Service:  "acara-mailer",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.Log.Level))

	dialCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	conn, err := messaging.Dial(dialCtx, cfg.RabbitMQ.URL, 50, 5*time.Second, log)
	cancel()
	if err != nil {
		zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()

	renderer, err := mail.NewRenderer()
	if err != nil {
		zap.L().Fatal("Failed to load mail templates", zap.Error(err))
	}
	sender := mail.NewSMTPSender(cfg.SMTPSenderConfig(), log)
	mailNotifier := notification.NewMailNotifier(renderer, sender, cfg.ActivationLink, log)

	processor := messaging.NewActivationProcessor(log, mailNotifier, cfg.ProcessTimeout)
	consumer := messaging.NewConsumer(conn, log, cfg.ActivationQueue, cfg.WorkerConcurrency, processor)

	healthSrv := startHealthCheckServer(cfg.HealthCheckPort, log)

	consumerErrChan := make(chan error, 1)
	go func() {
		zap.L().Info("Starting activation mail consumer", zap.String("queue", cfg.ActivationQueue))
		err := consumer.Start()
		if err != nil {
			zap.L().Error("Activation mail consumer stopped with error", zap.Error(err))
		}
		consumerErrChan <- err
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		zap.L().Info("Shutdown signal received")
	case err := <-consumerErrChan:
		zap.L().Warn("Consumer exited, shutting down", zap.Error(err))
		consumerErrChan <- err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to stop health check server", zap.Error(err))
	}

	consumer.Stop()
	<-consumerErrChan
	zap.L().Info("Mailer stopped")
}

func startHealthCheckServer(port string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting health check server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Health check server failed", zap.Error(err))
		}
	}()

	return srv
}
