package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchids/fitcourse/internal/domain"
)

type PostgresLinkageRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLinkageRepository(pool *pgxpool.Pool) *PostgresLinkageRepository {
	return &PostgresLinkageRepository{pool: pool}
}

func (r *PostgresLinkageRepository) Create(ctx context.Context, link *domain.StudentLink) error {
	query := `
		INSERT INTO professional_students (id, professional_id, student_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		link.ID,
		link.ProfessionalID,
		link.StudentID,
		link.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyLinked
		}
		return fmt.Errorf("failed to create student link: %w", err)
	}

	return nil
}

func (r *PostgresLinkageRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*domain.LinkedStudent, error) {
	query := `
		SELECT ps.id, ps.student_id, u.email, ps.created_at
		FROM professional_students ps
		JOIN users u ON u.id = ps.student_id
		WHERE ps.professional_id = $1
		ORDER BY ps.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*domain.LinkedStudent
	for rows.Next() {
		var s domain.LinkedStudent
		if err := rows.Scan(&s.LinkID, &s.StudentID, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student link: %w", err)
		}
		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student links: %w", err)
	}

	return students, nil
}

func (r *PostgresLinkageRepository) Delete(ctx context.Context, professionalID, linkID uuid.UUID) error {
	query := `
		DELETE FROM professional_students
		WHERE id = $1 AND professional_id = $2
	`

	result, err := r.pool.Exec(ctx, query, linkID, professionalID)
	if err != nil {
		return fmt.Errorf("failed to delete student link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrLinkageNotFound
	}

	return nil
}
