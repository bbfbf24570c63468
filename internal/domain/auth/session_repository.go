package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/domain/profile"
)

// SessionRepository holds the session snapshot: a copy of the profile taken
// at last register/login, keyed by token hash. The persisted store stays the
// system of record; the snapshot is refreshed from it on read.
type SessionRepository struct {
	redis *redis.Client // nil if Redis disabled
	ttl   time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{redis: client, ttl: ttl}
}

func (s *SessionRepository) Save(ctx context.Context, tokenHash string, p *profile.Profile) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "session:"+tokenHash, data, s.ttl).Err()
}

// Get returns the snapshot, or nil when absent. An unparsable snapshot is
// logged and treated as absent, never surfaced as an error.
func (s *SessionRepository) Get(ctx context.Context, tokenHash string) *profile.Profile {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, "session:"+tokenHash).Bytes()
	if err != nil {
		return nil
	}
	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) *profile.Profile {
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Msg("malformed session snapshot, treating as absent")
		return nil
	}
	return &p
}

func (s *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "session:"+tokenHash).Err()
}
