package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/repository"
	"github.com/orchids/fitcourse/pkg/jwt"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/response"
)

const userContextKey = "user"

// AuthMiddleware validates the bearer token and loads the account behind it.
// Loading fresh on every request means a subscription change or deleted
// account takes effect immediately, not at token expiry.
func AuthMiddleware(tokens *jwt.TokenService, userRepo repository.UserRepository, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid token subject")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			response.Unauthorized(c, "Account not found")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// currentUser returns the authenticated account set by AuthMiddleware.
func currentUser(c *gin.Context) *domain.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}
