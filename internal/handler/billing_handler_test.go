package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
)

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) UpdateSubscription(_ context.Context, userID uuid.UUID, status domain.SubscriptionStatus, subscriptionID, customerID *string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SubscriptionStatus = status
	u.SubscriptionID = subscriptionID
	if customerID != nil {
		u.CustomerID = customerID
	}
	return nil
}

func TestCheckoutEnvelopeMapsSessionFields(t *testing.T) {
	userID := uuid.New().String()
	payload := fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"mode": "subscription",
			"customer": "cus_1",
			"subscription": "sub_1",
			"client_reference_id": %q,
			"metadata": {"user_id": %q}
		}}
	}`, userID, userID)

	var envelope webhookEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	event := envelope.toProviderEvent()
	if event.UserID != userID {
		t.Errorf("UserID = %q, want %q", event.UserID, userID)
	}
	if event.SubscriptionID != "sub_1" {
		t.Errorf("SubscriptionID = %q, want sub_1", event.SubscriptionID)
	}
	if event.CustomerID != "cus_1" {
		t.Errorf("CustomerID = %q, want cus_1", event.CustomerID)
	}
}

// Lifecycle events deliver the subscription object, whose only link back to
// the account is the metadata planted at checkout time. The mapped event must
// carry that user id through to the reconciler.
func TestSubscriptionDeletedEnvelopeCancelsAccount(t *testing.T) {
	sub := "sub_1"
	customer := "cus_1"
	user := &domain.User{
		ID:                 uuid.New(),
		Email:              "pro@example.com",
		Role:               domain.RoleProfessional,
		SubscriptionStatus: domain.SubscriptionActive,
		SubscriptionID:     &sub,
		CustomerID:         &customer,
	}
	users := &memUserRepo{users: map[uuid.UUID]*domain.User{user.ID: user}}
	reconciler := service.NewReconcilerService(users, logger.New("test", "error"))

	payload := fmt.Sprintf(`{
		"id": "evt_2",
		"type": "customer.subscription.deleted",
		"data": {"object": {
			"id": "sub_1",
			"status": "canceled",
			"customer": "cus_1",
			"metadata": {"user_id": %q}
		}}
	}`, user.ID.String())

	var envelope webhookEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	event := envelope.toProviderEvent()
	if event.UserID != user.ID.String() {
		t.Fatalf("UserID = %q, want %q", event.UserID, user.ID.String())
	}
	if event.SubscriptionID != "sub_1" {
		t.Errorf("SubscriptionID = %q, want sub_1", event.SubscriptionID)
	}

	if err := reconciler.Apply(context.Background(), event); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if user.SubscriptionStatus != domain.SubscriptionCanceled {
		t.Errorf("status = %q, want canceled", user.SubscriptionStatus)
	}
	if user.SubscriptionID != nil {
		t.Errorf("SubscriptionID = %v, want nil", *user.SubscriptionID)
	}
}
