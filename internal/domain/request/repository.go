package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/easyselect/easyselect-api/internal/domain/coin"
)

// Store is the request persistence contract
type Store interface {
	CreateWithDebit(ctx context.Context, req *Request) error
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	Resolve(ctx context.Context, id uuid.UUID, status Status) (*Request, error)
}

// Repository implements Store over Postgres
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const requestColumns = `id, profile_id, profile_name, profile_phone, kind, status,
	target_phone, package_id, package_name, network, package_code, price, cost,
	video_id, created_at, resolved_at`

const insertRequestQuery = `
	INSERT INTO purchase_requests (
		id, profile_id, profile_name, profile_phone, kind, status,
		target_phone, package_id, package_name, network, package_code, price, cost, video_id
	) VALUES (
		:id, :profile_id, :profile_name, :profile_phone, :kind, :status,
		:target_phone, :package_id, :package_name, :network, :package_code, :price, :cost, :video_id
	)
	RETURNING created_at`

// CreateWithDebit inserts the request and debits its cost in one
// transaction. The balance is re-checked under a row lock, so a stale
// affordability read can never overdraw.
func (r *Repository) CreateWithDebit(ctx context.Context, req *Request) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if req.Cost > 0 {
		balance, err := coin.LockBalance(ctx, tx, req.ProfileID)
		if err != nil {
			return err
		}
		if balance < req.Cost {
			return coin.ErrInsufficientCoins
		}
		if err := coin.UpdateBalance(ctx, tx, req.ProfileID, balance-req.Cost); err != nil {
			return err
		}
		if err := coin.InsertTransaction(ctx, tx, req.ProfileID, -req.Cost, coin.ReasonPurchase, req.ID.String()); err != nil {
			return err
		}
	}

	rows, err := tx.NamedQuery(insertRequestQuery, req)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&req.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to create request: %w", err)
		}
	}
	rows.Close()

	return tx.Commit()
}

// Create inserts a request without touching the ledger
func (r *Repository) Create(ctx context.Context, req *Request) error {
	rows, err := r.db.NamedQueryContext(ctx, insertRequestQuery, req)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&req.CreatedAt); err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &req, nil
}

func (r *Repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Request, error) {
	requests := []Request{}
	query := `SELECT ` + requestColumns + ` FROM purchase_requests
		WHERE profile_id = $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query, profileID); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// ListAll returns every request, pending ones first, newest first
func (r *Repository) ListAll(ctx context.Context) ([]Request, error) {
	requests := []Request{}
	query := `SELECT ` + requestColumns + ` FROM purchase_requests
		ORDER BY (status = 'Pending') DESC, created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// Resolve moves a pending request to a terminal status. The WHERE guard
// makes resolution one-way even under concurrent admins.
func (r *Repository) Resolve(ctx context.Context, id uuid.UUID, status Status) (*Request, error) {
	var req Request
	query := `UPDATE purchase_requests
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'Pending'
		RETURNING ` + requestColumns
	err := r.db.GetContext(ctx, &req, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyResolved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve request: %w", err)
	}
	return &req, nil
}
