package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/pkg/jwt"
)

type fakeProfileRepo struct {
	profiles map[string]*domain.ProfessionalProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.ProfessionalProfile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.ProfessionalProfile) error {
	copied := *profile
	r.profiles[profile.UserID.String()] = &copied
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.ProfessionalProfile, error) {
	p, ok := r.profiles[userID.String()]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.ProfessionalProfile) error {
	if _, ok := r.profiles[profile.UserID.String()]; !ok {
		return domain.ErrProfileNotFound
	}
	copied := *profile
	r.profiles[profile.UserID.String()] = &copied
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeProfileRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	tokens := jwt.NewTokenService("test-secret", time.Hour, "fitcourse-test")
	return NewAuthService(users, profiles, tokens, testLogger()), users, profiles
}

func TestRegisterProfessionalCreatesProfile(t *testing.T) {
	svc, _, profiles := newAuthFixture()

	user, token, err := svc.Register(context.Background(), "pro@example.com", "s3cure-pass", "professional")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.RoleProfessional, user.Role)
	assert.Equal(t, domain.SubscriptionNone, user.SubscriptionStatus)

	_, err = profiles.GetByUserID(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestRegisterStudentHasNoProfile(t *testing.T) {
	svc, _, profiles := newAuthFixture()

	user, _, err := svc.Register(context.Background(), "student@example.com", "s3cure-pass", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	_, err = profiles.GetByUserID(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), "admin@example.com", "s3cure-pass", "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), "pro@example.com", "s3cure-pass", "professional")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "pro@example.com", "s3cure-pass", "user")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "pro@example.com", "s3cure-pass", "professional")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "pro@example.com", "s3cure-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "pro@example.com", user.Email)

	// Wrong password and unknown email produce the same error.
	_, _, err = svc.Login(ctx, "pro@example.com", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cure-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
