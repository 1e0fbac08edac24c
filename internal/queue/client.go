package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/pkg/logger"
)

type QueueClient struct {
	client *asynq.Client
	logger *logger.Logger
}

func NewQueueClient(redisAddr string, logger *logger.Logger) *QueueClient {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	return &QueueClient{
		client: client,
		logger: logger,
	}
}

func (q *QueueClient) Close() error {
	return q.client.Close()
}

func (q *QueueClient) EnqueuePaymentEvent(ctx context.Context, event domain.ProviderEvent) error {
	task, err := NewPaymentEventTask(PaymentEventPayload{Event: event})
	if err != nil {
		q.logger.Error(ctx, "failed to create payment event task", err, map[string]interface{}{
			"event_id": event.ID,
		})
		return fmt.Errorf("failed to create task: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(1 * time.Minute),
		asynq.Queue("critical"),
	}

	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		q.logger.Error(ctx, "failed to enqueue payment event task", err, map[string]interface{}{
			"event_id": event.ID,
		})
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	q.logger.Info(ctx, "payment event task enqueued", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"task_id":    info.ID,
		"queue":      info.Queue,
	})

	return nil
}
