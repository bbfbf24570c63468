package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/domain/catalog"
	"github.com/easyselect/easyselect-api/internal/domain/coin"
	"github.com/easyselect/easyselect-api/internal/domain/profile"
)

// PackageSource looks up the package being purchased
type PackageSource interface {
	GetByID(ctx context.Context, id string) (*catalog.Package, error)
}

// MultiplierProvider yields the current price-to-coins multiplier
type MultiplierProvider interface {
	CoinMultiplier(ctx context.Context) (int, error)
}

// Notifier pushes newly created requests to the admin live feed
type Notifier interface {
	NotifyCreated(req *Request)
}

// Service handles purchases, watch records and admin resolution
type Service struct {
	store      Store
	profiles   profile.Repository
	packages   PackageSource
	multiplier MultiplierProvider
	feed       Notifier
}

func NewService(store Store, profiles profile.Repository, packages PackageSource, multiplier MultiplierProvider, feed Notifier) *Service {
	return &Service{
		store:      store,
		profiles:   profiles,
		packages:   packages,
		multiplier: multiplier,
		feed:       feed,
	}
}

// Purchase debits the bundle cost and appends a pending request. The balance
// check here is advisory; the store re-checks under a row lock.
func (s *Service) Purchase(ctx context.Context, profileID uuid.UUID, req *PurchaseRequest) (*Request, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, profile.ErrProfileNotFound
	}

	pkg, err := s.packages.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}

	multiplier, err := s.multiplier.CoinMultiplier(ctx)
	if err != nil {
		return nil, err
	}
	cost := pkg.Cost(multiplier)

	if cost > 0 && p.Coins < cost {
		return nil, coin.ErrInsufficientCoins
	}

	packageID := pkg.ID
	created := &Request{
		ID:           uuid.New(),
		ProfileID:    p.ID,
		ProfileName:  p.Name,
		ProfilePhone: p.Phone,
		Kind:         KindPurchase,
		Status:       StatusPending,
		TargetPhone:  req.TargetPhone,
		PackageID:    &packageID,
		PackageName:  pkg.Name,
		Network:      string(pkg.Network),
		PackageCode:  pkg.Code,
		Price:        pkg.Price,
		Cost:         cost,
	}

	if err := s.store.CreateWithDebit(ctx, created); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", created.ID.String()).
		Str("profile_id", p.ID.String()).
		Str("package_id", pkg.ID).
		Int64("cost", cost).
		Msg("purchase request created")

	if s.feed != nil {
		s.feed.NotifyCreated(created)
	}
	return created, nil
}

// Watch records a completed video view. It has no coin effect.
func (s *Service) Watch(ctx context.Context, profileID uuid.UUID, videoID string) (*Request, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, profile.ErrProfileNotFound
	}

	created := &Request{
		ID:           uuid.New(),
		ProfileID:    p.ID,
		ProfileName:  p.Name,
		ProfilePhone: p.Phone,
		Kind:         KindWatch,
		Status:       StatusWatched,
		VideoID:      &videoID,
	}

	if err := s.store.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// History returns the profile's own requests, newest first
func (s *Service) History(ctx context.Context, profileID uuid.UUID) ([]Request, error) {
	return s.store.ListByProfile(ctx, profileID)
}

// ListAll returns every request for the admin console
func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.store.ListAll(ctx)
}

// Resolve moves a pending request to Approved or Rejected
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, status Status) (*Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	resolved, err := s.store.Resolve(ctx, id, status)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", id.String()).
		Str("status", string(status)).
		Msg("request resolved")
	return resolved, nil
}
