package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard_backend/internal/adapters"
	"jobboard_backend/internal/adapters/storage"
	consultationrepo "jobboard_backend/internal/consultations/repository"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/extraction"
	jobsrepo "jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/scheduler"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/db"
	"jobboard_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueue())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	sender := email.NewSender(cfg)
	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP not configured; consultation reminders will not be mailed")
	}

	batches := initBatchProcessor(ctx, cfg, pool, log)

	worker, err := scheduler.NewWorker(cfg, consultationrepo.New(pool), sender, batches, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

// initBatchProcessor wires extraction for queued batch drafts. It returns nil
// when MinIO is not configured, leaving batch tasks unhandled.
func initBatchProcessor(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) scheduler.BatchFileProcessor {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; batch extraction tasks will not run")
		return nil
	}
	files, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	options := adapters.NewJobOptionsReader(jobsrepo.New(pool))
	processor, err := extraction.NewBatchProcessor(ctx, cfg, pool, files, options, log)
	if err != nil {
		log.Error("failed to initialize batch extraction", "error", err)
		panic("failed to initialize batch extraction: " + err.Error())
	}
	return processor
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
