package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookastay/models"

	"github.com/hibiken/asynq"
)

// AsynqOutbox implements Outbox on top of an asynq task queue. Tasks are
// enqueued after the booking commit and processed by the worker with
// asynq's own retry policy.
type AsynqOutbox struct {
	client *asynq.Client
}

// NewAsynqOutbox connects an outbox to the given redis-backed queue.
func NewAsynqOutbox(redisAddr, redisPassword string, db int) *AsynqOutbox {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})
	return &AsynqOutbox{client: client}
}

// Close releases the underlying queue connection.
func (o *AsynqOutbox) Close() error {
	return o.client.Close()
}

func (o *AsynqOutbox) enqueue(ctx context.Context, taskType, bookingID string) error {
	payload, err := json.Marshal(models.BookingTaskPayload{BookingID: bookingID})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	task := asynq.NewTask(taskType, payload)
	if _, err := o.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return nil
}

// EnqueueNotify schedules receipt generation and notification dispatch.
func (o *AsynqOutbox) EnqueueNotify(ctx context.Context, bookingID string) error {
	return o.enqueue(ctx, models.TaskBookingNotify, bookingID)
}

// EnqueueVerification schedules identity-verification initiation.
func (o *AsynqOutbox) EnqueueVerification(ctx context.Context, bookingID string) error {
	return o.enqueue(ctx, models.TaskBookingVerify, bookingID)
}
