package access

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
)

func user(role domain.Role, status domain.SubscriptionStatus) *domain.User {
	return &domain.User{
		ID:                 uuid.New(),
		Email:              "someone@example.com",
		Role:               role,
		SubscriptionStatus: status,
	}
}

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.Role
		wantAll    bool
		wantOwner  bool
		wantLinked bool
	}{
		{name: "admin sees everything", role: domain.RoleAdmin, wantAll: true},
		{name: "professional sees own entities", role: domain.RoleProfessional, wantOwner: true},
		{name: "student sees linked professionals only", role: domain.RoleUser, wantLinked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := user(tt.role, domain.SubscriptionNone)
			scope := ScopeFor(u)

			if scope.All != tt.wantAll {
				t.Errorf("All = %v, want %v", scope.All, tt.wantAll)
			}
			if (scope.OwnerID != nil) != tt.wantOwner {
				t.Errorf("OwnerID set = %v, want %v", scope.OwnerID != nil, tt.wantOwner)
			}
			if tt.wantOwner && *scope.OwnerID != u.ID {
				t.Errorf("OwnerID = %v, want %v", *scope.OwnerID, u.ID)
			}
			if (scope.StudentID != nil) != tt.wantLinked {
				t.Errorf("StudentID set = %v, want %v", scope.StudentID != nil, tt.wantLinked)
			}
			if tt.wantLinked && !scope.ActiveOnly {
				t.Error("student scope must hide inactive videos")
			}
		})
	}
}

func TestCanWrite(t *testing.T) {
	owner := user(domain.RoleProfessional, domain.SubscriptionActive)
	other := user(domain.RoleProfessional, domain.SubscriptionActive)
	admin := user(domain.RoleAdmin, domain.SubscriptionNone)
	student := user(domain.RoleUser, domain.SubscriptionNone)

	tests := []struct {
		name    string
		caller  *domain.User
		ownerID uuid.UUID
		want    bool
	}{
		{name: "admin writes anything", caller: admin, ownerID: owner.ID, want: true},
		{name: "owner writes own entity", caller: owner, ownerID: owner.ID, want: true},
		{name: "professional cannot write foreign entity", caller: other, ownerID: owner.ID, want: false},
		{name: "student never writes", caller: student, ownerID: student.ID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanWrite(tt.caller, tt.ownerID); got != tt.want {
				t.Errorf("CanWrite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateCanManage(t *testing.T) {
	tests := []struct {
		name    string
		caller  *domain.User
		wantErr error
	}{
		{
			name:   "admin bypasses gate without subscription",
			caller: user(domain.RoleAdmin, domain.SubscriptionNone),
		},
		{
			name:   "professional with active subscription passes",
			caller: user(domain.RoleProfessional, domain.SubscriptionActive),
		},
		{
			name:    "professional without subscription is gated",
			caller:  user(domain.RoleProfessional, domain.SubscriptionNone),
			wantErr: domain.ErrSubscriptionRequired,
		},
		{
			name:    "professional past due is gated",
			caller:  user(domain.RoleProfessional, domain.SubscriptionPastDue),
			wantErr: domain.ErrSubscriptionRequired,
		},
		{
			name:    "professional canceled is gated",
			caller:  user(domain.RoleProfessional, domain.SubscriptionCanceled),
			wantErr: domain.ErrSubscriptionRequired,
		},
		{
			name:    "student never manages content",
			caller:  user(domain.RoleUser, domain.SubscriptionActive),
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultGate.CanManage(tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanManage() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGateWithoutAdminBypass(t *testing.T) {
	gate := Gate{AdminBypass: false}

	admin := user(domain.RoleAdmin, domain.SubscriptionNone)
	if err := gate.CanManage(admin); !errors.Is(err, domain.ErrSubscriptionRequired) {
		t.Errorf("CanManage(admin, no bypass) = %v, want ErrSubscriptionRequired", err)
	}

	paying := user(domain.RoleAdmin, domain.SubscriptionActive)
	if err := gate.CanManage(paying); err != nil {
		t.Errorf("CanManage(paying admin, no bypass) = %v, want nil", err)
	}
}
