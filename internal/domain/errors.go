package domain

import "errors"

var (
	// Users and auth.
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Profiles and linkage.
	ErrProfileNotFound = errors.New("professional profile not found")
	ErrLinkageNotFound = errors.New("student link not found")
	ErrAlreadyLinked   = errors.New("student is already linked")
	ErrNotAStudent     = errors.New("user is not a student account")
	ErrSelfLink        = errors.New("cannot add yourself as a student")

	// Shared by category names and video titles.
	ErrInvalidName = errors.New("name is empty or too long")

	// Categories.
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidParent    = errors.New("invalid parent category")
	ErrCategoryCycle    = errors.New("category cannot be moved under its own descendant")
	ErrSlugTaken        = errors.New("slug already in use within this scope")

	// Videos.
	ErrVideoNotFound = errors.New("video not found")
	ErrMissingSource = errors.New("video requires an uploaded file or an external URL")

	// Authorization. Ownership misses are reported as not-found so callers
	// cannot probe for entities belonging to other professionals.
	ErrNotOwner             = errors.New("entity belongs to another professional")
	ErrForbidden            = errors.New("operation not allowed for this role")
	ErrSubscriptionRequired = errors.New("active subscription required")

	// Billing.
	ErrBillingUnavailable    = errors.New("payment provider not configured")
	ErrUnknownProviderStatus = errors.New("unknown provider subscription status")
	ErrUnsupportedEventType  = errors.New("unsupported provider event type")
)
