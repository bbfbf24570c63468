package promotion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store is the promotion persistence contract
type Store interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	ListActive(ctx context.Context, since time.Time) ([]Promotion, error)
	ListAll(ctx context.Context) ([]Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository implements Store over Postgres
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const promotionColumns = `id, image_url, image_key, package_id, created_at`

func (r *Repository) Create(ctx context.Context, p *Promotion) error {
	query := `
		INSERT INTO promotions (id, image_url, image_key, package_id)
		VALUES (:id, :image_url, :image_key, :package_id)
		RETURNING created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&p.CreatedAt); err != nil {
			return fmt.Errorf("failed to create promotion: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	var p Promotion
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	return &p, nil
}

// ListActive returns promotions created after the cutoff, newest first
func (r *Repository) ListActive(ctx context.Context, since time.Time) ([]Promotion, error) {
	promotions := []Promotion{}
	query := `SELECT ` + promotionColumns + ` FROM promotions
		WHERE created_at > $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &promotions, query, since); err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]Promotion, error) {
	promotions := []Promotion{}
	query := `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &promotions, query); err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	if affected == 0 {
		return ErrPromotionNotFound
	}
	return nil
}
