package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type User struct {
	ID                 uuid.UUID
	Email              string
	PasswordHash       string
	Role               Role
	SubscriptionStatus SubscriptionStatus
	SubscriptionID     *string
	CustomerID         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewUser(email, passwordHash string, role Role) (*User, error) {
	user := &User{
		ID:           uuid.New(),
		Email:        strings.TrimSpace(strings.ToLower(email)),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *User) Validate() error {
	if !emailRegex.MatchString(u.Email) {
		return ErrInvalidEmail
	}

	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	if !u.SubscriptionStatus.IsValid() {
		return ErrInvalidRole
	}

	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsProfessional reports whether the user can own categories and videos.
// Admins are treated as professionals for management endpoints.
func (u *User) IsProfessional() bool {
	return u.Role == RoleProfessional || u.Role == RoleAdmin
}

// HasActiveSubscription reports whether the payment gate is open for this
// user. Admins are never gated; students never pass.
func (u *User) HasActiveSubscription() bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.Role != RoleProfessional {
		return false
	}
	return u.SubscriptionStatus == SubscriptionActive
}

// ApplySubscription overwrites the payment state with the latest known truth
// from the provider. Events may arrive out of order; the last write wins.
func (u *User) ApplySubscription(status SubscriptionStatus, subscriptionID, customerID *string) {
	u.SubscriptionStatus = status
	u.SubscriptionID = subscriptionID
	if customerID != nil && *customerID != "" {
		u.CustomerID = customerID
	}
	u.UpdatedAt = time.Now()
}
