package ads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// How long a shown popunder suppresses the next one
const popunderWindow = 24 * time.Hour

// Service gates the popunder ad to once per day per profile. Without Redis
// it never shows, so an outage can never double-show.
type Service struct {
	redis *redis.Client
}

func NewService(redisClient *redis.Client) *Service {
	return &Service{redis: redisClient}
}

func popunderKey(profileID uuid.UUID) string {
	return fmt.Sprintf("ads:popunder:%s", profileID)
}

// ShouldShowPopunder reports whether the popunder may be shown now, and if
// so marks it shown for the next 24 hours.
func (s *Service) ShouldShowPopunder(ctx context.Context, profileID uuid.UUID) bool {
	if s.redis == nil {
		return false
	}

	// SetNX both checks and claims the window in one round trip
	ok, err := s.redis.SetNX(ctx, popunderKey(profileID), time.Now().Unix(), popunderWindow).Result()
	if err != nil {
		log.Error().Err(err).Msg("popunder gate check failed")
		return false
	}
	return ok
}
