package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store is the video persistence contract
type Store interface {
	Create(ctx context.Context, v *Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*Video, error)
	ListActive(ctx context.Context, since time.Time) ([]Video, error)
	ListAll(ctx context.Context) ([]Video, error)
	AdjustReactions(ctx context.Context, id uuid.UUID, likeDelta, dislikeDelta int64) (*Video, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository implements Store over Postgres
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const videoColumns = `id, title, url, source_type, storage_key, duration, likes, dislikes, created_at`

func (r *Repository) Create(ctx context.Context, v *Video) error {
	query := `
		INSERT INTO videos (id, title, url, source_type, storage_key, duration)
		VALUES (:id, :title, :url, :source_type, :storage_key, :duration)
		RETURNING created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&v.CreatedAt); err != nil {
			return fmt.Errorf("failed to create video: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Video, error) {
	var v Video
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	err := r.db.GetContext(ctx, &v, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &v, nil
}

// ListActive returns videos created after the cutoff, newest first
func (r *Repository) ListActive(ctx context.Context, since time.Time) ([]Video, error) {
	videos := []Video{}
	query := `SELECT ` + videoColumns + ` FROM videos
		WHERE created_at > $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &videos, query, since); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]Video, error) {
	videos := []Video{}
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &videos, query); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// AdjustReactions applies counter deltas atomically. GREATEST keeps the
// counters from going negative if state and counters ever drift.
func (r *Repository) AdjustReactions(ctx context.Context, id uuid.UUID, likeDelta, dislikeDelta int64) (*Video, error) {
	var v Video
	query := `UPDATE videos
		SET likes = GREATEST(likes + $2, 0), dislikes = GREATEST(dislikes + $3, 0)
		WHERE id = $1
		RETURNING ` + videoColumns
	err := r.db.GetContext(ctx, &v, query, id, likeDelta, dislikeDelta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update reactions: %w", err)
	}
	return &v, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if affected == 0 {
		return ErrVideoNotFound
	}
	return nil
}
