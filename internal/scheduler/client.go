package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobboard_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	defaultQueue = "default"

	batchFileMaxRetry = 3
	batchFileTimeout  = 3 * time.Minute
)

type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
	leadTime  time.Duration
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queueName(cfg),
		leadTime:  cfg.GetReminderLeadTime(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.inspector != nil {
		_ = c.inspector.Close()
	}
	return c.client.Close()
}

// ReminderAt is when the reminder for a consultation starting at startsAt runs.
func (c *Client) ReminderAt(startsAt time.Time) time.Time {
	return startsAt.Add(-c.leadTime)
}

// ScheduleConsultationReminder enqueues the attendee reminder. A booking that
// already has a pending reminder gets it replaced, so reschedules move it.
func (c *Client) ScheduleConsultationReminder(ctx context.Context, bookingID uuid.UUID, startsAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewConsultationReminderTask(ConsultationReminderPayload{BookingID: bookingID.String()})
	if err != nil {
		return err
	}

	taskID := reminderTaskID(bookingID.String())
	opts := []asynq.Option{
		asynq.ProcessAt(c.ReminderAt(startsAt)),
		asynq.Queue(c.queue),
		asynq.TaskID(taskID),
	}

	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		if delErr := c.inspector.DeleteTask(c.queue, taskID); delErr != nil {
			return fmt.Errorf("failed to replace reminder %s: %w", taskID, delErr)
		}
		_, err = c.client.EnqueueContext(ctx, task, opts...)
	}
	return err
}

// EnqueueBatchFile queues extraction of one batch draft. A draft is queued at
// most once.
func (c *Client) EnqueueBatchFile(ctx context.Context, draftID uuid.UUID) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("scheduler client not configured")
	}

	task, err := NewBatchFileTask(BatchFilePayload{DraftID: draftID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(batchFileTaskID(draftID.String())),
		asynq.MaxRetry(batchFileMaxRetry),
		asynq.Timeout(batchFileTimeout),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueue(); queue != "" {
		return queue
	}
	return defaultQueue
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
