package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MultiplierProvider yields the current price-to-coins multiplier
type MultiplierProvider interface {
	CoinMultiplier(ctx context.Context) (int, error)
}

// Service handles catalog browsing and admin mutation
type Service struct {
	repo       Repository
	multiplier MultiplierProvider
}

func NewService(repo Repository, multiplier MultiplierProvider) *Service {
	return &Service{repo: repo, multiplier: multiplier}
}

// List returns packages for one network, narrowed by tab and search the way
// the storefront browses them. Tab matches city or type; "All" disables it.
func (s *Service) List(ctx context.Context, q ListQuery) ([]PackageResponse, error) {
	packages, err := s.repo.ListByNetwork(ctx, Network(q.Network))
	if err != nil {
		return nil, err
	}

	if q.Tab != "" && q.Tab != "All" {
		filtered := packages[:0]
		for _, p := range packages {
			if p.City == q.Tab || p.Type == q.Tab {
				filtered = append(filtered, p)
			}
		}
		packages = filtered
	}

	if q.Search != "" {
		query := strings.ToLower(q.Search)
		filtered := packages[:0]
		for _, p := range packages {
			if strings.Contains(strings.ToLower(p.Name), query) ||
				strings.Contains(strings.ToLower(p.City), query) ||
				strings.Contains(strings.ToLower(p.Type), query) {
				filtered = append(filtered, p)
			}
		}
		packages = filtered
	}

	return s.withCosts(ctx, packages)
}

// ListFeatured returns the banner packages
func (s *Service) ListFeatured(ctx context.Context) ([]PackageResponse, error) {
	packages, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return s.withCosts(ctx, packages)
}

// ListAll returns the whole catalog for the admin console
func (s *Service) ListAll(ctx context.Context) ([]PackageResponse, error) {
	packages, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withCosts(ctx, packages)
}

// Get returns one package with its current cost
func (s *Service) Get(ctx context.Context, id string) (*PackageResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	multiplier, err := s.multiplier.CoinMultiplier(ctx)
	if err != nil {
		return nil, err
	}
	return &PackageResponse{Package: *p, Cost: p.Cost(multiplier)}, nil
}

// Add creates a package, assigning an id and deriving the legacy info line
// when absent
func (s *Service) Add(ctx context.Context, req *PackageRequest) (*Package, error) {
	p := fromRequest(req)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Info == "" {
		p.Info = p.DeriveInfo()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("package_id", p.ID).Str("network", string(p.Network)).Msg("package added")
	return p, nil
}

// Update replaces the package with matching id in place
func (s *Service) Update(ctx context.Context, id string, req *PackageRequest) (*Package, error) {
	p := fromRequest(req)
	p.ID = id
	if p.Info == "" {
		p.Info = p.DeriveInfo()
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("package_id", p.ID).Msg("package updated")
	return p, nil
}

// Delete removes a package. Requests that already reference it keep their
// denormalized snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("package_id", id).Msg("package deleted")
	return nil
}

func (s *Service) withCosts(ctx context.Context, packages []Package) ([]PackageResponse, error) {
	multiplier, err := s.multiplier.CoinMultiplier(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		out = append(out, PackageResponse{Package: p, Cost: p.Cost(multiplier)})
	}
	return out, nil
}

func fromRequest(req *PackageRequest) *Package {
	coinRequired := true
	if req.CoinRequired != nil {
		coinRequired = *req.CoinRequired
	}
	city := req.City
	if city == "" {
		city = "All"
	}
	return &Package{
		ID:           req.ID,
		Network:      Network(req.Network),
		City:         city,
		Type:         req.Type,
		Name:         req.Name,
		Info:         req.Info,
		Price:        req.Price,
		Code:         req.Code,
		Validity:     req.Validity,
		Internet:     req.Internet,
		OnNet:        req.OnNet,
		OffNet:       req.OffNet,
		SMS:          req.SMS,
		CoinRequired: coinRequired,
		IsFeatured:   req.IsFeatured,
	}
}
