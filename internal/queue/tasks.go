package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/orchids/fitcourse/internal/domain"
)

const (
	TypePaymentEvent = "billing:provider_event"
)

type PaymentEventPayload struct {
	Event domain.ProviderEvent `json:"event"`
}

func NewPaymentEventTask(payload PaymentEventPayload) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment event payload: %w", err)
	}
	return asynq.NewTask(TypePaymentEvent, payloadBytes), nil
}

func ParsePaymentEventPayload(task *asynq.Task) (*PaymentEventPayload, error) {
	var payload PaymentEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment event payload: %w", err)
	}
	return &payload, nil
}
