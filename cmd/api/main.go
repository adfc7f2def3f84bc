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

	"jobboard_backend/internal/adapters"
	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/internal/analytics"
	"jobboard_backend/internal/applications"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/consultations"
	consultationservice "jobboard_backend/internal/consultations/service"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/events"
	"jobboard_backend/internal/exports"
	"jobboard_backend/internal/extraction"
	extractionservice "jobboard_backend/internal/extraction/service"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/internal/http/router"
	"jobboard_backend/internal/jobs"
	jobservice "jobboard_backend/internal/jobs/service"
	"jobboard_backend/internal/leads"
	"jobboard_backend/internal/notification"
	"jobboard_backend/internal/scheduler"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/db"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
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
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	viewGate, closeViewGate := initViewGate(cfg.GetRedisURL(), log)
	if closeViewGate != nil {
		defer closeViewGate()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	// One asynq client serves consultation reminders and batch extraction.
	var (
		reminders  consultationservice.ReminderScheduler
		batchQueue extractionservice.BatchQueue
	)
	taskClient := initTaskClient(cfg, log)
	if taskClient != nil {
		defer taskClient.Close()
		reminders = taskClient
		batchQueue = taskClient
	}

	files := initFileStore(ctx, cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events and serves the admin feed
	notificationModule := notification.New(email.NewSender(cfg), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(pool, val)
	jobsModule := jobs.NewModule(pool, viewGate, cfg, val, log)
	applicationsModule := applications.NewModule(pool, eventBus, val, log)
	analyticsModule := analytics.NewModule(pool, val, log)
	leadsModule := leads.NewModule(pool, val, log)
	consultationsModule := consultations.NewModule(pool, reminders, eventBus, cfg, val, log)
	exportsModule := exports.NewModule(leadsModule.Service(), val, log)

	// Wire job masters: jobs → extraction (prompt masters and tag matching)
	jobOptions := adapters.NewJobOptionsReader(jobsModule.Repository())
	// Wire draft publishing: extraction → jobs
	draftPublisher := adapters.NewDraftJobPublisher(jobsModule.Service(), val)
	extractionModule, err := extraction.NewModule(ctx, cfg, pool, files, jobOptions, batchQueue, draftPublisher, val, log)
	if err != nil {
		log.Error("failed to initialize extraction module", "error", err)
		panic("failed to initialize extraction module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Admins: authModule.AdminChecker(),
		Modules: []apphttp.Module{
			authModule,
			jobsModule,
			applicationsModule,
			analyticsModule,
			leadsModule,
			consultationsModule,
			exportsModule,
			extractionModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// Close live streams first; Shutdown waits for open handlers.
		notificationModule.Stream().Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initViewGate(redisURL string, log *logger.Logger) (jobservice.ViewGate, func()) {
	if redisURL == "" {
		log.Warn("REDIS_URL not configured; view de-duplication disabled")
		return nil, nil
	}

	gate, err := jobservice.NewRedisViewGateFromURL(redisURL)
	if err != nil {
		log.Error("failed to initialize view gate", "error", err)
		return nil, nil
	}

	return gate, func() {
		_ = gate.Close()
	}
}

// initTaskClient connects the asynq client. A nil client disables
// consultation reminders and batch extraction.
func initTaskClient(cfg config.SchedulerConfig, log *logger.Logger) *scheduler.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; consultation reminders and batch extraction disabled")
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task scheduler client", "error", err)
		return nil
	}
	return client
}

// initFileStore connects the job-files bucket. A nil store disables uploads.
func initFileStore(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) storage.FileStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; job file uploads disabled")
		return nil
	}

	store, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure job-files bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinIOBucketJobFiles())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "jobFilesBucket", cfg.GetMinIOBucketJobFiles())
	return store
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
