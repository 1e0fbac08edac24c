package domain

// SubscriptionStatus tracks the payment state of a professional account.
// The empty string means the professional never completed a checkout.
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = ""
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionUnpaid   SubscriptionStatus = "unpaid"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionNone, SubscriptionTrialing, SubscriptionActive,
		SubscriptionPastDue, SubscriptionUnpaid, SubscriptionCanceled:
		return true
	}
	return false
}

var providerStatusMap = map[string]SubscriptionStatus{
	"active":   SubscriptionActive,
	"canceled": SubscriptionCanceled,
	"past_due": SubscriptionPastDue,
	"unpaid":   SubscriptionUnpaid,
	"trialing": SubscriptionTrialing,
}

// SubscriptionStatusFromProvider maps a provider subscription status string
// to the local state. The second return value reports whether the provider
// status is known; callers must reject unknown statuses rather than clear
// the local state.
func SubscriptionStatusFromProvider(providerStatus string) (SubscriptionStatus, bool) {
	status, ok := providerStatusMap[providerStatus]
	return status, ok
}
