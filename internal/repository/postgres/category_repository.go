package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/domain"
)

type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

const categorySelect = `
	SELECT c.id, c.professional_id, c.parent_id, c.name, c.slug, c.description,
	       c.created_at, c.updated_at, p.name AS parent_name
	FROM categories c
	LEFT JOIN categories p ON p.id = c.parent_id
`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID,
		&category.ProfessionalID,
		&category.ParentID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.ParentName,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (
			id, professional_id, parent_id, name, slug, description,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.ProfessionalID,
		category.ParentID,
		category.Name,
		category.Slug,
		category.Description,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := categorySelect + ` WHERE c.id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.ParentID,
		category.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Descendants and video attachments go with it via ON DELETE CASCADE.
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func (r *PostgresCategoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	query := categorySelect + ` WHERE c.professional_id = $1 ORDER BY c.name`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresCategoryRepository) ListByScope(ctx context.Context, scope access.Scope) ([]*domain.Category, error) {
	switch {
	case scope.All:
		query := categorySelect + ` ORDER BY c.name`
		return r.list(ctx, query)
	case scope.OwnerID != nil:
		return r.ListByOwner(ctx, *scope.OwnerID)
	case scope.StudentID != nil:
		query := categorySelect + `
			WHERE c.professional_id IN (
				SELECT professional_id FROM professional_students WHERE student_id = $1
			)
			ORDER BY c.name
		`
		return r.list(ctx, query, *scope.StudentID)
	default:
		return nil, nil
	}
}

func (r *PostgresCategoryRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *PostgresCategoryRepository) SlugExists(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, slug string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE professional_id = $1
			  AND parent_id IS NOT DISTINCT FROM $2
			  AND slug = $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ownerID, parentID, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return exists, nil
}
