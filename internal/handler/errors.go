package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/pkg/response"
	"github.com/orchids/fitcourse/pkg/validator"
)

// handleDomainError translates service errors into the JSON envelope. Errors
// that are not recognized fall through to a 500 without leaking internals.
func handleDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrLinkageNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAlreadyLinked),
		errors.Is(err, domain.ErrSlugTaken):
		response.Conflict(c, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid email or password")

	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "You do not have permission to do this")

	case errors.Is(err, domain.ErrSubscriptionRequired):
		response.Error(c, http.StatusPaymentRequired, "SUBSCRIPTION_REQUIRED", "An active subscription is required")

	case errors.Is(err, domain.ErrBillingUnavailable):
		response.ServiceUnavailable(c, "Billing is not configured")

	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrCategoryCycle),
		errors.Is(err, domain.ErrMissingSource),
		errors.Is(err, domain.ErrNotAStudent),
		errors.Is(err, domain.ErrSelfLink),
		errors.Is(err, domain.ErrNotOwner):
		response.ValidationError(c, err.Error())

	case errors.Is(err, validator.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())

	case errors.Is(err, validator.ErrInvalidFormat),
		errors.Is(err, validator.ErrInvalidTitle),
		errors.Is(err, validator.ErrInvalidDesc),
		errors.Is(err, validator.ErrInvalidName),
		errors.Is(err, validator.ErrInvalidEmail),
		errors.Is(err, validator.ErrInvalidURL),
		errors.Is(err, validator.ErrInvalidUUID),
		errors.Is(err, validator.ErrInvalidPagination):
		response.ValidationError(c, err.Error())

	default:
		response.InternalError(c, "Something went wrong")
	}
}
