package coin

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service exposes coin ledger operations
type Service struct {
	ledger   Ledger
	adReward int64
}

func NewService(ledger Ledger, adReward int64) *Service {
	return &Service{ledger: ledger, adReward: adReward}
}

func (s *Service) GetBalance(ctx context.Context, profileID uuid.UUID) (int64, error) {
	return s.ledger.Balance(ctx, profileID)
}

func (s *Service) GetHistory(ctx context.Context, profileID uuid.UUID) ([]Transaction, error) {
	return s.ledger.History(ctx, profileID)
}

// RewardAdWatch unconditionally credits the ad-watch reward. No cap, no
// cooldown; the once-per-day popunder gate is a separate concern.
func (s *Service) RewardAdWatch(ctx context.Context, profileID uuid.UUID) (int64, error) {
	balance, err := s.ledger.Credit(ctx, profileID, s.adReward, ReasonAdReward, "")
	if err != nil {
		return 0, err
	}
	log.Info().Str("profile_id", profileID.String()).Int64("amount", s.adReward).Msg("ad reward credited")
	return balance, nil
}

// AdRewardAmount returns the configured per-ad reward
func (s *Service) AdRewardAmount() int64 {
	return s.adReward
}
