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
	"github.com/orchids/fitcourse/internal/repository"
)

type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoSelect = `
	SELECT v.id, v.professional_id, v.title, v.description, v.file_path,
	       v.external_url, v.thumbnail_path, v.is_active, v.created_at, v.updated_at
	FROM videos v
`

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var video domain.Video
	err := row.Scan(
		&video.ID,
		&video.ProfessionalID,
		&video.Title,
		&video.Description,
		&video.FilePath,
		&video.ExternalURL,
		&video.ThumbnailPath,
		&video.IsActive,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// scopeClause renders the read scope as SQL. The returned ok is false when
// the scope grants nothing at all.
func scopeClause(scope access.Scope, args *[]interface{}) (string, bool) {
	switch {
	case scope.All:
		return "TRUE", true
	case scope.OwnerID != nil:
		*args = append(*args, *scope.OwnerID)
		return fmt.Sprintf("v.professional_id = $%d", len(*args)), true
	case scope.StudentID != nil:
		*args = append(*args, *scope.StudentID)
		clause := fmt.Sprintf(`v.professional_id IN (
			SELECT professional_id FROM professional_students WHERE student_id = $%d
		)`, len(*args))
		if scope.ActiveOnly {
			clause += " AND v.is_active"
		}
		return clause, true
	default:
		return "", false
	}
}

func (r *PostgresVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO videos (
			id, professional_id, title, description, file_path, external_url,
			thumbnail_path, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, query,
		video.ID,
		video.ProfessionalID,
		video.Title,
		video.Description,
		video.FilePath,
		video.ExternalURL,
		video.ThumbnailPath,
		video.IsActive,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	if err := insertCategoryLinks(ctx, tx, video.ID, video.CategoryIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit video: %w", err)
	}

	return nil
}

func insertCategoryLinks(ctx context.Context, tx pgx.Tx, videoID uuid.UUID, categoryIDs []uuid.UUID) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO video_categories (video_id, category_id) VALUES ($1, $2)`,
			videoID, categoryID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach category: %w", err)
		}
	}
	return nil
}

func (r *PostgresVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	query := videoSelect + ` WHERE v.id = $1`

	video, err := scanVideo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	if err := r.attachCategories(ctx, []*domain.Video{video}); err != nil {
		return nil, err
	}

	return video, nil
}

func (r *PostgresVideoRepository) GetByIDScoped(ctx context.Context, scope access.Scope, id uuid.UUID) (*domain.Video, error) {
	args := []interface{}{id}
	clause, ok := scopeClause(scope, &args)
	if !ok {
		return nil, domain.ErrVideoNotFound
	}

	query := videoSelect + ` WHERE v.id = $1 AND ` + clause

	video, err := scanVideo(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	if err := r.attachCategories(ctx, []*domain.Video{video}); err != nil {
		return nil, err
	}

	return video, nil
}

func (r *PostgresVideoRepository) List(ctx context.Context, scope access.Scope, filter repository.VideoFilter) ([]*domain.Video, int, error) {
	var args []interface{}
	clause, ok := scopeClause(scope, &args)
	if !ok {
		return nil, 0, nil
	}

	where := "WHERE " + clause

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM video_categories vc
			WHERE vc.video_id = v.id AND vc.category_id = $%d
		)`, len(args))
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		where += fmt.Sprintf(
			` AND (v.title ILIKE '%%' || $%d || '%%' OR v.description ILIKE '%%' || $%d || '%%')`,
			len(args), len(args),
		)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM videos v ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	args = append(args, filter.Limit)
	limitArg := len(args)
	args = append(args, filter.Offset)
	offsetArg := len(args)

	query := videoSelect + where + fmt.Sprintf(
		` ORDER BY v.created_at DESC LIMIT $%d OFFSET $%d`, limitArg, offsetArg,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating videos: %w", err)
	}

	if err := r.attachCategories(ctx, videos); err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

func (r *PostgresVideoRepository) attachCategories(ctx context.Context, videos []*domain.Video) error {
	if len(videos) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(videos))
	byID := make(map[uuid.UUID]*domain.Video, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
		byID[v.ID] = v
	}

	query := `
		SELECT vc.video_id, c.id, c.professional_id, c.parent_id, c.name, c.slug,
		       c.description, c.created_at, c.updated_at, p.name AS parent_name
		FROM video_categories vc
		JOIN categories c ON c.id = vc.category_id
		LEFT JOIN categories p ON p.id = c.parent_id
		WHERE vc.video_id = ANY($1)
		ORDER BY c.name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load video categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var videoID uuid.UUID
		var category domain.Category
		err := rows.Scan(
			&videoID,
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
			return fmt.Errorf("failed to scan video category: %w", err)
		}
		if video, ok := byID[videoID]; ok {
			video.Categories = append(video.Categories, &category)
		}
	}

	return rows.Err()
}

func (r *PostgresVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE videos
		SET title = $1, description = $2, file_path = $3, external_url = $4,
		    thumbnail_path = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := tx.Exec(ctx, query,
		video.Title,
		video.Description,
		video.FilePath,
		video.ExternalURL,
		video.ThumbnailPath,
		video.IsActive,
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM video_categories WHERE video_id = $1`, video.ID); err != nil {
		return fmt.Errorf("failed to detach categories: %w", err)
	}

	if err := insertCategoryLinks(ctx, tx, video.ID, video.CategoryIDs()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit video update: %w", err)
	}

	return nil
}

func (r *PostgresVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM videos WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}
