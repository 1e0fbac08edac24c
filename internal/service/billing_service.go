package service

import (
	"context"

	"github.com/orchids/fitcourse/internal/config"
	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/pkg/logger"
)

// CheckoutParams describe a hosted checkout session for one professional.
type CheckoutParams struct {
	UserID     string
	Email      string
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutProvider is the payment provider surface the billing service
// needs: hosted checkout and the self-service billing portal.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// BillingService starts checkout and portal sessions. When the provider
// credentials are missing every call reports unavailable instead of failing
// half-way through.
type BillingService struct {
	provider CheckoutProvider
	config   *config.BillingConfig
	log      *logger.Logger
}

func NewBillingService(provider CheckoutProvider, config *config.BillingConfig, log *logger.Logger) *BillingService {
	return &BillingService{
		provider: provider,
		config:   config,
		log:      log,
	}
}

func (s *BillingService) available() bool {
	return s.provider != nil && s.config.Configured()
}

// StartCheckout creates a hosted checkout session for the professional and
// returns its URL. The user id travels in the session metadata so the
// webhook can find the account later.
func (s *BillingService) StartCheckout(ctx context.Context, user *domain.User) (string, error) {
	if !s.available() {
		return "", domain.ErrBillingUnavailable
	}
	if user.Role != domain.RoleProfessional {
		return "", domain.ErrForbidden
	}

	params := CheckoutParams{
		UserID:     user.ID.String(),
		Email:      user.Email,
		PriceID:    s.config.PriceID,
		SuccessURL: s.config.SuccessURL,
		CancelURL:  s.config.CancelURL,
	}
	if user.CustomerID != nil {
		params.CustomerID = *user.CustomerID
	}

	url, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.log.Error(ctx, "failed to create checkout session", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	s.log.Info(ctx, "checkout session created", map[string]interface{}{
		"user_id": user.ID,
	})

	return url, nil
}

// StartPortal creates a billing portal session for a professional who has
// checked out before. Without a stored customer id there is nothing to
// manage yet.
func (s *BillingService) StartPortal(ctx context.Context, user *domain.User) (string, error) {
	if !s.available() {
		return "", domain.ErrBillingUnavailable
	}
	if user.Role != domain.RoleProfessional {
		return "", domain.ErrForbidden
	}
	if user.CustomerID == nil || *user.CustomerID == "" {
		return "", domain.ErrSubscriptionRequired
	}

	url, err := s.provider.CreatePortalSession(ctx, *user.CustomerID, s.config.PortalReturnURL)
	if err != nil {
		s.log.Error(ctx, "failed to create portal session", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	return url, nil
}
