package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/response"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Email and password are required")
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  toUserResponse(user),
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  toUserResponse(user),
		"token": token,
	})
}

// Me returns the authenticated account, including the professional profile
// when there is one.
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	body := gin.H{"user": toUserResponse(user)}

	if user.IsProfessional() {
		profile, err := h.authService.GetProfile(c.Request.Context(), user.ID)
		if err == nil {
			body["profile"] = toProfileResponse(profile)
		} else if !errors.Is(err, domain.ErrProfileNotFound) {
			handleDomainError(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, body)
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
	CREF     *string `json:"cref"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid request body")
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), user, req.FullName, req.Bio, req.CREF)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toProfileResponse(profile))
}
