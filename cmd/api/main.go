package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"application-portal/internal/client"
	"application-portal/internal/config"
	"application-portal/internal/handler"
	"application-portal/internal/repository"
	"application-portal/internal/server"
	"application-portal/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	defer logger.Sync()

	if cfg.AllowUnverifiedTestPayments && cfg.Environment.Name == "production" {
		logger.Fatal("ALLOW_UNVERIFIED_TEST_PAYMENTS must not be enabled in production")
	}

	db, err := client.InitDB(cfg.DB.Driver, cfg.DB.URL)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)
	mediaClient := client.NewCloudinaryClient(&cfg.Cloudinary)

	applicantRepo := repository.NewApplicantRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	applicationService := service.NewApplicationService(
		applicantRepo, fieldRepo, paymentRepo,
		stripeClient, logger, cfg.AllowUnverifiedTestPayments,
	)
	applicantsService := service.NewApplicantsService(applicantRepo, logger)
	webhookService := service.NewWebhookService(stripeClient, paymentRepo, fieldRepo, webhookEventRepo, logger)
	uploadService := service.NewUploadService(mediaClient, fieldRepo, applicationService, logger)

	srv := server.NewServer(
		server.Config{
			APIKey:                      cfg.APIKey,
			AllowedOrigin:               cfg.HTTP.AllowedOrigin,
			AllowUnverifiedTestPayments: cfg.AllowUnverifiedTestPayments,
		},
		logger,
		handler.NewApplicationHandler(applicationService),
		handler.NewApplicantsHandler(applicantsService),
		handler.NewWebhookHandler(webhookService),
		handler.NewUploadHandler(uploadService),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg config.Log) *zap.Logger {
	level := zapcore.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, _ := zcfg.Build()
	return logger
}
