package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReactionState remembers a viewer's previous reaction to a video for the
// length of the visibility window.
type ReactionState interface {
	Get(ctx context.Context, profileID uuid.UUID, videoID uuid.UUID) (Reaction, error)
	Set(ctx context.Context, profileID uuid.UUID, videoID uuid.UUID, reaction Reaction) error
}

// RedisReactionState keeps reaction history in Redis with a 24h TTL. A nil
// client means reactions are never deduplicated, which only inflates
// counters, so it degrades rather than fails.
type RedisReactionState struct {
	client *redis.Client
}

func NewRedisReactionState(client *redis.Client) *RedisReactionState {
	return &RedisReactionState{client: client}
}

func reactionKey(profileID, videoID uuid.UUID) string {
	return fmt.Sprintf("video:reaction:%s:%s", profileID, videoID)
}

func (s *RedisReactionState) Get(ctx context.Context, profileID uuid.UUID, videoID uuid.UUID) (Reaction, error) {
	if s.client == nil {
		return "", nil
	}

	val, err := s.client.Get(ctx, reactionKey(profileID, videoID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get reaction state: %w", err)
	}
	return Reaction(val), nil
}

func (s *RedisReactionState) Set(ctx context.Context, profileID uuid.UUID, videoID uuid.UUID, reaction Reaction) error {
	if s.client == nil {
		return nil
	}

	if err := s.client.Set(ctx, reactionKey(profileID, videoID), string(reaction), VisibilityWindow).Err(); err != nil {
		return fmt.Errorf("failed to set reaction state: %w", err)
	}
	return nil
}
