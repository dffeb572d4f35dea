package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventhub/config"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	httpdelivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"
	"eventhub/internal/repository/memory"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

Configuration is read from the environment (and a .env file outside
production). STORAGE=postgres applies migrations on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := config.NewLogger(cfg.Environment)
		metrics.Init()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

// application is the wired object graph behind the HTTP server.
type application struct {
	handler    http.Handler
	dispatcher *services.Dispatcher
	db         *sql.DB
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}

	var (
		userRepo  domain.UserRepository
		eventRepo domain.EventRepository
		health    func(context.Context) error
	)
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		userRepo = memory.NewUserRepository()
		eventRepo = memory.NewEventRepository()
	default:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		app.db = db
		userRepo = postgres.NewUserRepository(db)
		eventRepo = postgres.NewEventRepository(db)
		health = db.PingContext
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mail.AWSRegion,
			AccessKeyID:     cfg.Mail.AWSAccessKeyID,
			SecretAccessKey: cfg.Mail.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		app.close()
		return nil, fmt.Errorf("email templates: %w", err)
	}
	emailService := services.NewEmailService(mailer, renderer, logger)
	app.dispatcher = services.NewDispatcher(emailService, logger, cfg.NotifyWorkers, cfg.NotifyQueueSize)

	tokens := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	userService, err := services.NewUserService(userRepo, hasher, tokens, cfg.RequestTimeout)
	if err != nil {
		app.close()
		return nil, err
	}
	eventService := services.NewEventService(eventRepo, userRepo, cfg.RequestTimeout)
	directory := services.NewDirectoryService(eventRepo, userRepo, cfg.RequestTimeout)
	registrations := services.NewRegistrationService(eventRepo, userRepo, app.dispatcher, cfg.RequestTimeout)

	app.handler = httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:          logger,
		Verifier:        tokens,
		Users:           controllers.NewUserController(logger, userService),
		Events:          controllers.NewEventController(logger, eventService, directory, registrations),
		AuthRateLimiter: middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute, logger),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		Health:          health,
	})
	return app, nil
}

// shutdown drains queued notifications and releases storage.
func (a *application) shutdown(ctx context.Context) error {
	var err error
	if a.dispatcher != nil {
		err = a.dispatcher.Shutdown(ctx)
	}
	a.close()
	return err
}

func (a *application) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
		logger.Error("server error", "err", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := app.shutdown(shutdownCtx); err != nil {
		logger.Error("notification drain", "err", err)
	}
	logger.Info("server stopped")
	return serveErr
}
