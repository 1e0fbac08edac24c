package domain

import "testing"

func TestHasActiveSubscription(t *testing.T) {
	tests := []struct {
		role   Role
		status SubscriptionStatus
		want   bool
	}{
		{RoleAdmin, SubscriptionNone, true},
		{RoleProfessional, SubscriptionActive, true},
		{RoleProfessional, SubscriptionNone, false},
		{RoleProfessional, SubscriptionPastDue, false},
		{RoleProfessional, SubscriptionCanceled, false},
		{RoleUser, SubscriptionActive, false},
	}

	for _, tt := range tests {
		u := &User{Role: tt.role, SubscriptionStatus: tt.status}
		if got := u.HasActiveSubscription(); got != tt.want {
			t.Errorf("%s/%s: got %v, want %v", tt.role, tt.status, got, tt.want)
		}
	}
}

func TestApplySubscriptionKeepsCustomerID(t *testing.T) {
	existing := "cus_123"
	u := &User{Role: RoleProfessional, CustomerID: &existing}

	sub := "sub_456"
	u.ApplySubscription(SubscriptionActive, &sub, nil)

	if u.CustomerID == nil || *u.CustomerID != "cus_123" {
		t.Error("nil customer id must not clear the stored one")
	}
	if u.SubscriptionStatus != SubscriptionActive {
		t.Errorf("status: got %s, want active", u.SubscriptionStatus)
	}
}

func TestSubscriptionStatusFromProvider(t *testing.T) {
	if status, ok := SubscriptionStatusFromProvider("active"); !ok || status != SubscriptionActive {
		t.Errorf("active: got %s, %v", status, ok)
	}
	if _, ok := SubscriptionStatusFromProvider("paused"); ok {
		t.Error("unknown provider status must not map")
	}
	if _, ok := SubscriptionStatusFromProvider(""); ok {
		t.Error("empty provider status must not map")
	}
}

func TestRegistrableRoles(t *testing.T) {
	if !RoleProfessional.IsRegistrable() || !RoleUser.IsRegistrable() {
		t.Error("professional and user must be self-service roles")
	}
	if RoleAdmin.IsRegistrable() {
		t.Error("admin must not be registrable")
	}
}
