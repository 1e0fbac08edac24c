package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/repository"
	"github.com/orchids/fitcourse/pkg/jwt"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/security"
	"github.com/orchids/fitcourse/pkg/validator"
)

type AuthService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokens      *jwt.TokenService
	log         *logger.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokens *jwt.TokenService,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		log:         log,
	}
}

// Register creates an account with one of the self-service roles. Admin
// accounts are provisioned out of band, never through this path.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*domain.User, string, error) {
	email = validator.SanitizeString(email)

	if err := validator.ValidateEmail(email); err != nil {
		return nil, "", domain.ErrInvalidEmail
	}

	if err := security.ValidatePassword(password); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidPassword, err)
	}

	userRole := domain.Role(role)
	if userRole == "" {
		userRole = domain.RoleUser
	}
	if !userRole.IsRegistrable() {
		return nil, "", domain.ErrInvalidRole
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(email, hash, userRole)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if user.Role == domain.RoleProfessional {
		profile := domain.NewProfessionalProfile(user.ID, "")
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			s.log.Error(ctx, "failed to create professional profile", err, map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, "", fmt.Errorf("failed to create profile: %w", err)
		}
	}

	token, err := s.tokens.GenerateToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info(ctx, "user registered", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, validator.SanitizeString(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !security.ComparePassword(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info(ctx, "user logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	return user, token, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the professional profile for the user, if any.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.ProfessionalProfile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpdateProfile patches the professional profile fields that are non-nil.
func (s *AuthService) UpdateProfile(ctx context.Context, user *domain.User, fullName, bio, cref *string) (*domain.ProfessionalProfile, error) {
	if !user.IsProfessional() {
		return nil, domain.ErrForbidden
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		profile = domain.NewProfessionalProfile(user.ID, "")
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	}

	if fullName != nil {
		if err := validator.ValidateName(*fullName); err != nil {
			return nil, err
		}
	}

	profile.UpdateDetails(fullName, bio, cref)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
