package scheduler

import (
	"context"
	"fmt"
	"time"

	"jobboard_backend/internal/consultations/repository"
	"jobboard_backend/internal/email"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// BookingReader loads the booking a reminder refers to.
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Booking, error)
}

// BatchFileProcessor extracts one queued batch draft.
type BatchFileProcessor interface {
	ProcessBatchFile(ctx context.Context, draftID uuid.UUID) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reminders *reminderHandler
	batches   *batchFileHandler
	log       *logger.Logger
}

type batchFileHandler struct {
	processor BatchFileProcessor
	log       *logger.Logger
}

type reminderHandler struct {
	bookings BookingReader
	sender   email.Sender
	log      *logger.Logger
	now      func() time.Time
}

// NewWorker builds the task server. batches may be nil when extraction is not
// configured; batch tasks then stay queued.
func NewWorker(cfg config.SchedulerConfig, bookings BookingReader, sender email.Sender, batches BatchFileProcessor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		reminders: &reminderHandler{bookings: bookings, sender: sender, log: log, now: time.Now},
		log:       log,
	}

	mux.HandleFunc(TaskConsultationReminder, w.reminders.handle)
	if batches != nil {
		w.batches = &batchFileHandler{processor: batches, log: log}
		mux.HandleFunc(TaskExtractionBatchFile, w.batches.handle)
	}

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (h *reminderHandler) handle(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseConsultationReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	booking, err := h.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			h.log.Info("reminder skipped, booking gone", "bookingId", bookingID)
			return nil
		}
		return err
	}

	if reason := skipReason(booking, h.now()); reason != "" {
		h.log.Info("reminder skipped", "bookingId", bookingID, "reason", reason)
		return nil
	}

	err = h.sender.SendConsultationReminder(ctx, *booking.AttendeeEmail, email.ConsultationReminder{
		AttendeeName: getOptionalString(booking.AttendeeName),
		JobTitle:     getOptionalString(booking.JobTitle),
		StartsAt:     *booking.StartsAt,
		MeetingURL:   getOptionalString(booking.MeetingURL),
	})
	if err != nil {
		return err
	}

	h.log.Info("consultation reminder sent", "bookingId", bookingID)
	return nil
}

func (h *batchFileHandler) handle(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBatchFilePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	draftID, err := uuid.Parse(payload.DraftID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := h.processor.ProcessBatchFile(ctx, draftID); err != nil {
		h.log.Warn("batch file extraction failed", "draftId", draftID, "error", err)
		return err
	}
	return nil
}

func skipReason(b repository.Booking, now time.Time) string {
	switch b.Status {
	case "canceled", "completed", "no_show":
		return "status " + b.Status
	}
	if b.StartsAt == nil || !b.StartsAt.After(now) {
		return "already started"
	}
	if b.AttendeeEmail == nil || *b.AttendeeEmail == "" {
		return "no attendee email"
	}
	return ""
}

func getOptionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
