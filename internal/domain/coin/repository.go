package coin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Ledger defines the credit-side ledger operations. Debits exist only
// inside the purchase transaction, composed from the exported tx helpers.
type Ledger interface {
	Balance(ctx context.Context, profileID uuid.UUID) (int64, error)
	Credit(ctx context.Context, profileID uuid.UUID, amount int64, reason Reason, referenceID string) (int64, error)
	History(ctx context.Context, profileID uuid.UUID) ([]Transaction, error)
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Balance(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT coins FROM profiles WHERE id = $1`, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProfileNotFound
	}
	return balance, err
}

func (r *Repository) History(ctx context.Context, profileID uuid.UUID) ([]Transaction, error) {
	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, profile_id, amount, reason, reference_id, created_at
		FROM coin_transactions
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`, profileID)
	return txs, err
}

// Credit adds coins to the balance and records a ledger entry in one
// transaction under a row lock
func (r *Repository) Credit(ctx context.Context, profileID uuid.UUID, amount int64, reason Reason, referenceID string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	balance, err := LockBalance(ctx, tx, profileID)
	if err != nil {
		return 0, err
	}

	nextBalance := balance + amount
	if err := UpdateBalance(ctx, tx, profileID, nextBalance); err != nil {
		return 0, err
	}
	if err := InsertTransaction(ctx, tx, profileID, amount, reason, referenceID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return nextBalance, nil
}

// LockBalance reads the profile balance with a row lock inside tx.
// Exported for repositories that combine a balance mutation with their own
// writes in a single transaction.
func LockBalance(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `SELECT coins FROM profiles WHERE id = $1 FOR UPDATE`, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProfileNotFound
	}
	return balance, err
}

// UpdateBalance writes the new balance inside tx
func UpdateBalance(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE profiles SET coins = $1, updated_at = NOW() WHERE id = $2`, balance, profileID)
	return err
}

// InsertTransaction records a ledger entry inside tx
func InsertTransaction(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID, amount int64, reason Reason, referenceID string) error {
	var ref interface{}
	if referenceID != "" {
		ref = referenceID
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO coin_transactions (id, profile_id, amount, reason, reference_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), profileID, amount, string(reason), ref)
	return err
}
