package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines catalog data access
type Repository interface {
	Create(ctx context.Context, p *Package) error
	Update(ctx context.Context, p *Package) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Package, error)
	ListByNetwork(ctx context.Context, network Network) ([]Package, error)
	ListAll(ctx context.Context) ([]Package, error)
	ListFeatured(ctx context.Context) ([]Package, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const packageColumns = `id, network, city, type, name, info, price, code, validity,
	internet, on_net, off_net, sms, coin_required, is_featured, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Package) error {
	query := `
		INSERT INTO packages (id, network, city, type, name, info, price, code,
			validity, internet, on_net, off_net, sms, coin_required, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Network, p.City, p.Type, p.Name, p.Info, p.Price, p.Code,
		p.Validity, p.Internet, p.OnNet, p.OffNet, p.SMS, p.CoinRequired, p.IsFeatured,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateID
		}
		return fmt.Errorf("catalog repository create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, p *Package) error {
	query := `
		UPDATE packages
		SET network = $2, city = $3, type = $4, name = $5, info = $6, price = $7,
			code = $8, validity = $9, internet = $10, on_net = $11, off_net = $12,
			sms = $13, coin_required = $14, is_featured = $15, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Network, p.City, p.Type, p.Name, p.Info, p.Price, p.Code,
		p.Validity, p.Internet, p.OnNet, p.OffNet, p.SMS, p.CoinRequired, p.IsFeatured,
	)
	if err != nil {
		return fmt.Errorf("catalog repository update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Package, error) {
	var p Package
	err := r.db.GetContext(ctx, &p, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByNetwork(ctx context.Context, network Network) ([]Package, error) {
	var packages []Package
	err := r.db.SelectContext(ctx, &packages, `
		SELECT `+packageColumns+` FROM packages
		WHERE network = $1
		ORDER BY created_at DESC
	`, network)
	return packages, err
}

func (r *repository) ListAll(ctx context.Context) ([]Package, error) {
	var packages []Package
	err := r.db.SelectContext(ctx, &packages, `
		SELECT `+packageColumns+` FROM packages
		ORDER BY created_at DESC
	`)
	return packages, err
}

func (r *repository) ListFeatured(ctx context.Context) ([]Package, error) {
	var packages []Package
	err := r.db.SelectContext(ctx, &packages, `
		SELECT `+packageColumns+` FROM packages
		WHERE is_featured = true
		ORDER BY created_at DESC
	`)
	return packages, err
}
