package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines profile data access. Inserts happen in the auth
// registration transaction, never here.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByPhone(ctx context.Context, phone string) (*Profile, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a new profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `
		SELECT id, name, phone, coins, created_at, updated_at
		FROM profiles WHERE id = $1
	`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByPhone(ctx context.Context, phone string) (*Profile, error) {
	query := `
		SELECT id, name, phone, coins, created_at, updated_at
		FROM profiles WHERE phone = $1
	`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE profiles SET name = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
