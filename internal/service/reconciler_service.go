package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/repository"
	"github.com/orchids/fitcourse/pkg/logger"
)

// ReconcilerService applies payment provider events to local accounts. Each
// application is a plain overwrite of the stored subscription state, so
// redelivered events are harmless.
type ReconcilerService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

func NewReconcilerService(userRepo repository.UserRepository, log *logger.Logger) *ReconcilerService {
	return &ReconcilerService{
		userRepo: userRepo,
		log:      log,
	}
}

// Apply reconciles one provider event. Events without a usable user id are
// logged and dropped: the provider would otherwise retry them forever.
// Unknown subscription statuses are rejected so the local state is never
// cleared by a provider vocabulary change.
func (r *ReconcilerService) Apply(ctx context.Context, event domain.ProviderEvent) error {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		r.log.Warn(ctx, "payment event has no usable user id", map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
			"user_id":    event.UserID,
		})
		return nil
	}

	switch event.Type {
	case domain.EventCheckoutCompleted:
		return r.applyCheckout(ctx, userID, event)
	case domain.EventSubscriptionUpdated:
		return r.applyStatus(ctx, userID, event)
	case domain.EventSubscriptionDeleted:
		return r.applyDeleted(ctx, userID, event)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedEventType, event.Type)
	}
}

func (r *ReconcilerService) applyCheckout(ctx context.Context, userID uuid.UUID, event domain.ProviderEvent) error {
	// Both subscription and one-off payment checkouts unlock the account.
	var subscriptionID *string
	if event.Mode == domain.CheckoutModeSubscription && event.SubscriptionID != "" {
		subscriptionID = &event.SubscriptionID
	}

	if err := r.update(ctx, userID, domain.SubscriptionActive, subscriptionID, event.CustomerID); err != nil {
		return err
	}

	r.log.Info(ctx, "checkout applied", map[string]interface{}{
		"event_id": event.ID,
		"user_id":  userID,
		"mode":     event.Mode,
	})

	return nil
}

func (r *ReconcilerService) applyStatus(ctx context.Context, userID uuid.UUID, event domain.ProviderEvent) error {
	status, ok := domain.SubscriptionStatusFromProvider(event.Status)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownProviderStatus, event.Status)
	}

	var subscriptionID *string
	if event.SubscriptionID != "" {
		subscriptionID = &event.SubscriptionID
	}

	if err := r.update(ctx, userID, status, subscriptionID, event.CustomerID); err != nil {
		return err
	}

	r.log.Info(ctx, "subscription status applied", map[string]interface{}{
		"event_id": event.ID,
		"user_id":  userID,
		"status":   status,
	})

	return nil
}

func (r *ReconcilerService) applyDeleted(ctx context.Context, userID uuid.UUID, event domain.ProviderEvent) error {
	if err := r.update(ctx, userID, domain.SubscriptionCanceled, nil, event.CustomerID); err != nil {
		return err
	}

	r.log.Info(ctx, "subscription cancellation applied", map[string]interface{}{
		"event_id": event.ID,
		"user_id":  userID,
	})

	return nil
}

func (r *ReconcilerService) update(ctx context.Context, userID uuid.UUID, status domain.SubscriptionStatus, subscriptionID *string, customerID string) error {
	var customer *string
	if customerID != "" {
		customer = &customerID
	}

	err := r.userRepo.UpdateSubscription(ctx, userID, status, subscriptionID, customer)
	if errors.Is(err, domain.ErrUserNotFound) {
		// The account is gone. Retrying will never help.
		r.log.Warn(ctx, "payment event references unknown account", map[string]interface{}{
			"user_id": userID,
		})
		return nil
	}
	return err
}
