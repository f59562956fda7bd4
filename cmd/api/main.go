package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buildquick/booking-api/internal/api/router"
	"github.com/buildquick/booking-api/internal/app/bootstrap"
	appconfig "github.com/buildquick/booking-api/internal/config"
	"github.com/buildquick/booking-api/internal/http/handlers"
	"github.com/buildquick/booking-api/internal/notify"
	"github.com/buildquick/booking-api/internal/observability/metrics"
	"github.com/buildquick/booking-api/internal/store"
	"github.com/buildquick/booking-api/internal/webhook"
	"github.com/buildquick/booking-api/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"mock_data", cfg.UseMockData,
	)

	ctx := context.Background()
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	pool := bootstrap.BuildPgxPool(ctx, cfg, logger)
	defer func() {
		if pool != nil {
			pool.Close()
		}
	}()

	tokens := bootstrap.BuildTokenSource(cfg, redisClient, logger)
	client := bootstrap.BuildCalendlyClient(cfg, tokens, logger)
	availabilitySvc := bootstrap.BuildAvailabilityService(cfg, client, logger)
	bookingSvc := bootstrap.BuildBookingService(cfg, client, logger)

	var (
		recorder webhook.Recorder
		saver    handlers.BookingSaver
		admin    *handlers.AdminHandler
	)
	if pool != nil {
		st := store.New(pool)
		recorder = st
		saver = st
		admin = handlers.NewAdminHandler(st, logger)
		logger.Info("persistence enabled")
	} else {
		admin = handlers.NewAdminHandler(nil, logger)
		logger.Info("persistence disabled, webhook events are log-only")
	}

	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	var mailer *notify.ConfirmationMailer
	if sender != nil {
		mailer = notify.NewConfirmationMailer(sender, logger)
	}

	m := metrics.NewSchedulingMetrics(nil)
	webhookHandler := webhook.NewHandler(cfg.WebhookSigningSecret, recorder, m, logger)
	oauth := bootstrap.BuildOAuthService(cfg, logger)
	calendlyHandler := handlers.NewCalendlyHandler(
		availabilitySvc, bookingSvc, oauth, webhookHandler, mailer, saver, m, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		CalendlyHandler:    calendlyHandler,
		AdminHandler:       admin,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
