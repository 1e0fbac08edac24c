package domain

// Provider event types the reconciler understands. Anything else is
// acknowledged and skipped.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// CheckoutModeSubscription is the checkout mode that starts a recurring
// subscription. One-off payment checkouts carry mode "payment".
const CheckoutModeSubscription = "subscription"

// ProviderEvent is a payment provider webhook event normalized to the
// fields the reconciler cares about. UserID is the raw string from the
// provider metadata and may be empty or malformed.
type ProviderEvent struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Mode           string `json:"mode,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Status         string `json:"status,omitempty"`
}
