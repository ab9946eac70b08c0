package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sungwon/invoice-notifier/internal/api"
	"github.com/sungwon/invoice-notifier/internal/config"
	"github.com/sungwon/invoice-notifier/internal/dispatch"
	"github.com/sungwon/invoice-notifier/internal/logger"
	"github.com/sungwon/invoice-notifier/internal/mailer"
)

const serviceName = "notification-service"

func main() {
	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewFromConfig(logger.Config{
		Level:     cfg.Logging.Level,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	log.Info().Msg("starting notification server")

	if !cfg.EmailConfigured() {
		log.Warn().Msg("mail relay credentials are not set; deliveries will fail until NOTIFIER_SMTP_USERNAME and NOTIFIER_SMTP_PASSWORD are configured")
	}

	// Initialize SMTP transport
	smtpMailer := mailer.NewSMTP(mailer.Config{
		Host:           cfg.SMTP.Host,
		Port:           cfg.SMTP.Port,
		Username:       cfg.SMTP.Username,
		Password:       cfg.SMTP.Password,
		FromName:       cfg.SMTP.FromName,
		MaxConnections: cfg.SMTP.MaxConnections,
		MaxMessages:    cfg.SMTP.MaxMessages,
		DialTimeout:    cfg.SMTP.DialTimeout,
	}, log)

	// Verify relay connectivity in the background so an unreachable relay
	// cannot delay listening. A failure is logged but does not prevent the
	// server from starting; individual sends report their own failures.
	go func() {
		verifyCtx, cancelVerify := context.WithTimeout(context.Background(), cfg.SMTP.DialTimeout)
		defer cancelVerify()
		if err := smtpMailer.Verify(verifyCtx); err != nil {
			log.Error().Err(err).Msg("mail relay verification failed")
			return
		}
		log.Info().Str("host", cfg.SMTP.Host).Int("port", cfg.SMTP.Port).Msg("mail relay verified")
	}()

	// Start the background dispatcher
	dispatcher := dispatch.New(smtpMailer, dispatch.Config{
		WorkerCount:     cfg.Dispatch.WorkerCount,
		QueueSize:       cfg.Dispatch.QueueSize,
		ShutdownTimeout: cfg.Dispatch.ShutdownTimeout,
	}, log)
	dispatcher.Start(context.Background())

	// Build router
	router := api.NewRouter(api.RouterConfig{
		Log:             log,
		APIKey:          cfg.Auth.APIKey,
		Enqueuer:        dispatcher,
		ServiceName:     serviceName,
		EmailConfigured: cfg.EmailConfigured,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
	})

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("notification server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	// Stop accepting new requests first, then drain the dispatcher so
	// already-accepted emails get their delivery attempt.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	dispatcher.Stop(shutdownCtx)

	if err := smtpMailer.Close(); err != nil {
		log.Error().Err(err).Msg("error closing mail transport")
	}

	log.Info().Msg("server stopped")
}
