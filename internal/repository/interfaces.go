package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateSubscription overwrites the payment state; a nil customerID
	// leaves the stored customer id untouched.
	UpdateSubscription(ctx context.Context, userID uuid.UUID, status domain.SubscriptionStatus, subscriptionID, customerID *string) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.ProfessionalProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ProfessionalProfile, error)
	Update(ctx context.Context, profile *domain.ProfessionalProfile) error
}

type LinkageRepository interface {
	Create(ctx context.Context, link *domain.StudentLink) error
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*domain.LinkedStudent, error)
	// Delete removes a link owned by the professional; a miss (wrong owner or
	// unknown id) returns domain.ErrLinkageNotFound.
	Delete(ctx context.Context, professionalID, linkID uuid.UUID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete cascades to descendant categories and detaches the category
	// from videos via the schema's foreign keys.
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)
	ListByScope(ctx context.Context, scope access.Scope) ([]*domain.Category, error)
	SlugExists(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, slug string) (bool, error)
}

type VideoFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error)
	// GetByIDScoped returns domain.ErrVideoNotFound for rows outside the
	// scope, indistinguishable from a genuine miss.
	GetByIDScoped(ctx context.Context, scope access.Scope, id uuid.UUID) (*domain.Video, error)
	List(ctx context.Context, scope access.Scope, filter VideoFilter) ([]*domain.Video, int, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id uuid.UUID) error
}
