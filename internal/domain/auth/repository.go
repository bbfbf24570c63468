package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/easyselect/easyselect-api/internal/domain/coin"
	"github.com/easyselect/easyselect-api/internal/domain/profile"
)

// RegistrationRepository persists a new profile together with its welcome
// bonus and the optional referrer credit in one transaction, so the referrer
// update is part of the same store write as the new profile.
type RegistrationRepository interface {
	Register(ctx context.Context, p *profile.Profile, welcomeBonus int64, referrerID uuid.UUID, referralCredit int64) error
}

type registrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Register(ctx context.Context, p *profile.Profile, welcomeBonus int64, referrerID uuid.UUID, referralCredit int64) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, name, phone, coins)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Name, p.Phone, welcomeBonus)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return profile.ErrPhoneTaken
		}
		return fmt.Errorf("registration insert profile: %w", err)
	}

	if welcomeBonus > 0 {
		if err := coin.InsertTransaction(ctx, tx, p.ID, welcomeBonus, coin.ReasonWelcome, ""); err != nil {
			return fmt.Errorf("registration welcome entry: %w", err)
		}
	}

	if referrerID != uuid.Nil && referralCredit > 0 {
		balance, err := coin.LockBalance(ctx, tx, referrerID)
		if err != nil {
			return fmt.Errorf("registration lock referrer: %w", err)
		}
		if err := coin.UpdateBalance(ctx, tx, referrerID, balance+referralCredit); err != nil {
			return fmt.Errorf("registration credit referrer: %w", err)
		}
		if err := coin.InsertTransaction(ctx, tx, referrerID, referralCredit, coin.ReasonReferral, p.ID.String()); err != nil {
			return fmt.Errorf("registration referral entry: %w", err)
		}
	}

	p.Coins = welcomeBonus
	return tx.Commit()
}
