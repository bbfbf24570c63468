package settings

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

var ErrInvalidValue = errors.New("setting value must be a positive integer")

// Service reads and updates the coin-economy settings, falling back to
// configured defaults when a key has never been written.
type Service struct {
	repo              Repository
	defaultMultiplier int
	defaultBonus      int
}

func NewService(repo Repository, defaultMultiplier, defaultBonus int) *Service {
	return &Service{
		repo:              repo,
		defaultMultiplier: defaultMultiplier,
		defaultBonus:      defaultBonus,
	}
}

// CoinMultiplier returns the current price-to-coins multiplier
func (s *Service) CoinMultiplier(ctx context.Context) (int, error) {
	return s.get(ctx, KeyCoinMultiplier, s.defaultMultiplier)
}

// WelcomeBonus returns the current registration bonus
func (s *Service) WelcomeBonus(ctx context.Context) (int, error) {
	return s.get(ctx, KeyWelcomeBonus, s.defaultBonus)
}

// Get returns both settings
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	multiplier, err := s.CoinMultiplier(ctx)
	if err != nil {
		return nil, err
	}
	bonus, err := s.WelcomeBonus(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{CoinMultiplier: multiplier, WelcomeBonus: bonus}, nil
}

// Update writes both settings
func (s *Service) Update(ctx context.Context, in Settings) (*Settings, error) {
	if in.CoinMultiplier <= 0 || in.WelcomeBonus < 0 {
		return nil, ErrInvalidValue
	}
	if err := s.repo.Set(ctx, KeyCoinMultiplier, in.CoinMultiplier); err != nil {
		return nil, err
	}
	if err := s.repo.Set(ctx, KeyWelcomeBonus, in.WelcomeBonus); err != nil {
		return nil, err
	}
	log.Info().Int("coin_multiplier", in.CoinMultiplier).Int("welcome_bonus", in.WelcomeBonus).Msg("settings updated")
	return &in, nil
}

func (s *Service) get(ctx context.Context, key string, fallback int) (int, error) {
	value, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}
