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

	"listing_portal_backend/internal/contact"
	"listing_portal_backend/internal/contact/repository"
	"listing_portal_backend/internal/email"
	"listing_portal_backend/internal/events"
	apphttp "listing_portal_backend/internal/http"
	"listing_portal_backend/internal/http/router"
	"listing_portal_backend/internal/notification"
	"listing_portal_backend/internal/scheduler"
	"listing_portal_backend/migrations"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/db"
	"listing_portal_backend/platform/kv"
	"listing_portal_backend/platform/logger"
	"listing_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "storage", cfg.GetStorageDriver())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if cfg.GetDatabaseURL() != "" {
		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		log.Info("database connection established")

		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, pool, migrations.FS)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	} else {
		log.Warn("DATABASE_URL not configured; contact ledger disabled")
	}

	var storage kv.Backend
	if err := withRetry(ctx, log, "visitor storage", 5, 2*time.Second, func() error {
		b, err := kv.Open(ctx, cfg, pool, cfg.GetSessionTTL())
		if err != nil {
			return err
		}
		storage = b
		return nil
	}); err != nil {
		log.Error("failed to open visitor storage", "error", err)
		panic("failed to open visitor storage: " + err.Error())
	}
	defer func() { _ = storage.Close() }()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	receiptScheduler, closeScheduler := initReceiptScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, log)
	if receiptScheduler != nil {
		notificationModule.SetReceiptScheduler(receiptScheduler)
	}
	notificationModule.RegisterHandlers(eventBus)

	deps := contact.Deps{
		Storage:   storage.Store,
		Bus:       eventBus,
		Validator: val,
		Log:       log,
	}
	if pool != nil {
		deps.Ledger = repository.New(pool)
	}
	contactModule, err := contact.NewModule(cfg, deps)
	if err != nil {
		log.Error("failed to initialize contact module", "error", err)
		panic("failed to initialize contact module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pingFunc(storage.Ping),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			contactModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return contactModule.RunJanitor(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}

	eventBus.Wait()
	log.Info("server stopped")
}

func initReceiptScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReceiptScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; enquiry receipts are sent inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize receipt scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
