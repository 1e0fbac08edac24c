// Package access decides what a caller may see and change. Scoping is a pure
// function of the caller's identity; repositories translate the resulting
// Scope into query filters so out-of-scope rows are never fetched at all.
package access

import (
	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
)

// Scope narrows category and video queries to what the caller may read.
// Exactly one of All, OwnerID, StudentID is set for an authenticated caller.
type Scope struct {
	// All grants unrestricted reads (admin).
	All bool
	// OwnerID restricts reads to entities owned by this professional.
	OwnerID *uuid.UUID
	// StudentID restricts reads to entities owned by professionals linked to
	// this student.
	StudentID *uuid.UUID
	// ActiveOnly additionally hides inactive videos (student reads).
	ActiveOnly bool
}

// ScopeFor computes the read scope for an authenticated user.
func ScopeFor(u *domain.User) Scope {
	switch u.Role {
	case domain.RoleAdmin:
		return Scope{All: true}
	case domain.RoleProfessional:
		id := u.ID
		return Scope{OwnerID: &id}
	default:
		id := u.ID
		return Scope{StudentID: &id, ActiveOnly: true}
	}
}

// CanWrite reports whether the user may modify an entity owned by the given
// professional. Admins may always write; professionals only their own rows.
// Callers must surface a false result as not-found, not forbidden, so the
// existence of other professionals' entities is not leaked.
func CanWrite(u *domain.User, ownerID uuid.UUID) bool {
	if u.Role == domain.RoleAdmin {
		return true
	}
	return u.Role == domain.RoleProfessional && u.ID == ownerID
}

// Gate contains the explicit configuration for the payment gate. It is
// passed in rather than read from ambient settings so tests and callers can
// control it.
type Gate struct {
	// AdminBypass lets admin accounts mutate content without a subscription.
	AdminBypass bool
}

// DefaultGate matches production behavior: admins are exempt from the
// payment gate.
var DefaultGate = Gate{AdminBypass: true}

// CanManage checks that the user may create or mutate content at all:
// professionals need an active subscription, admins pass when the gate
// allows bypass, students never pass.
func (g Gate) CanManage(u *domain.User) error {
	if u.Role == domain.RoleAdmin {
		if g.AdminBypass {
			return nil
		}
		if u.SubscriptionStatus == domain.SubscriptionActive {
			return nil
		}
		return domain.ErrSubscriptionRequired
	}

	if u.Role != domain.RoleProfessional {
		return domain.ErrForbidden
	}

	if u.SubscriptionStatus != domain.SubscriptionActive {
		return domain.ErrSubscriptionRequired
	}

	return nil
}
