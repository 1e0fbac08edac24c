package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
)

const eventDedupTTL = 24 * time.Hour

type PaymentEventHandler struct {
	reconciler *service.ReconcilerService
	redis      *redis.Client
	logger     *logger.Logger
}

func NewPaymentEventHandler(reconciler *service.ReconcilerService, redisClient *redis.Client, logger *logger.Logger) *PaymentEventHandler {
	return &PaymentEventHandler{
		reconciler: reconciler,
		redis:      redisClient,
		logger:     logger,
	}
}

func (h *PaymentEventHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePaymentEventPayload(task)
	if err != nil {
		h.logger.Error(ctx, "failed to parse payment event payload", err, nil)
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}

	event := payload.Event

	// Providers redeliver events. Reconciliation is a plain overwrite so a
	// replay is harmless, but skipping it keeps the logs honest.
	if event.ID != "" {
		fresh, err := h.redis.SetNX(ctx, "billing:event:"+event.ID, 1, eventDedupTTL).Result()
		if err != nil {
			return fmt.Errorf("event dedup check: %w", err)
		}
		if !fresh {
			h.logger.Info(ctx, "duplicate payment event skipped", map[string]interface{}{
				"event_id": event.ID,
			})
			return nil
		}
	}

	if err := h.reconciler.Apply(ctx, event); err != nil {
		if errors.Is(err, domain.ErrUnknownProviderStatus) || errors.Is(err, domain.ErrUnsupportedEventType) {
			h.logger.Warn(ctx, "payment event not applied", map[string]interface{}{
				"event_id":   event.ID,
				"event_type": event.Type,
				"error":      err.Error(),
			})
			return fmt.Errorf("apply event: %v: %w", err, asynq.SkipRetry)
		}
		h.logger.Error(ctx, "payment event reconciliation failed", err, map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		return fmt.Errorf("apply event: %w", err)
	}

	h.logger.Info(ctx, "payment event applied", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	return nil
}
