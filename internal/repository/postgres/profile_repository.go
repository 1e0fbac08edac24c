package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchids/fitcourse/internal/domain"
)

type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, profile *domain.ProfessionalProfile) error {
	query := `
		INSERT INTO professional_profiles (
			user_id, full_name, bio, cref, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.FullName,
		profile.Bio,
		profile.CREF,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ProfessionalProfile, error) {
	query := `
		SELECT user_id, full_name, bio, cref, created_at, updated_at
		FROM professional_profiles
		WHERE user_id = $1
	`

	var profile domain.ProfessionalProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.Bio,
		&profile.CREF,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, profile *domain.ProfessionalProfile) error {
	query := `
		UPDATE professional_profiles
		SET full_name = $1, bio = $2, cref = $3, updated_at = NOW()
		WHERE user_id = $4
	`

	result, err := r.pool.Exec(ctx, query,
		profile.FullName,
		profile.Bio,
		profile.CREF,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}

	return nil
}
