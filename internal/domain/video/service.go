package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/domain/request"
	"github.com/easyselect/easyselect-api/internal/pkg/storage"
)

// WatchRecorder appends a watch-through record for the viewer
type WatchRecorder interface {
	Watch(ctx context.Context, profileID uuid.UUID, videoID string) (*request.Request, error)
}

// Service handles publishing, reactions and watch records
type Service struct {
	store     Store
	media     storage.Storage
	reactions ReactionState
	watches   WatchRecorder
	now       func() time.Time
}

func NewService(store Store, media storage.Storage, reactions ReactionState, watches WatchRecorder) *Service {
	return &Service{
		store:     store,
		media:     media,
		reactions: reactions,
		watches:   watches,
		now:       time.Now,
	}
}

// ListActive returns videos still inside their visibility window
func (s *Service) ListActive(ctx context.Context) ([]Video, error) {
	return s.store.ListActive(ctx, s.now().Add(-VisibilityWindow))
}

// ListAll returns every video with its expiry state for the admin console
func (s *Service) ListAll(ctx context.Context) ([]AdminVideo, error) {
	videos, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]AdminVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, AdminVideo{Video: v, Expired: !v.Active(now)})
	}
	return out, nil
}

// AddEmbed publishes a video hosted on an external player
func (s *Service) AddEmbed(ctx context.Context, req *EmbedRequest) (*Video, error) {
	v := &Video{
		ID:         uuid.New(),
		Title:      req.Title,
		URL:        req.URL,
		SourceType: SourceEmbed,
		Duration:   req.Duration,
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	log.Info().Str("video_id", v.ID.String()).Msg("embed video published")
	return v, nil
}

// Upload validates and stores a video file, then publishes it. Oversized
// files are rejected before any storage write.
func (s *Service) Upload(ctx context.Context, file io.Reader, title string, duration int) (*Video, error) {
	buf, mimeType, err := storage.ValidateAndBuffer(file, storage.CategoryVideo)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := fmt.Sprintf("videos/%s%s", id, storage.ExtensionForMime(mimeType))
	if err := s.media.Put(ctx, key, bytes.NewReader(buf.Bytes()), mimeType); err != nil {
		return nil, err
	}

	v := &Video{
		ID:         id,
		Title:      title,
		URL:        s.media.GetURL(key),
		SourceType: SourceUpload,
		StorageKey: key,
		Duration:   duration,
	}
	if err := s.store.Create(ctx, v); err != nil {
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to clean up video after insert failure")
		}
		return nil, err
	}

	log.Info().Str("video_id", v.ID.String()).Msg("video uploaded")
	return v, nil
}

// React records a thumbs up or down with switch semantics: repeating the
// same reaction is a no-op, switching moves the count from one side to the
// other.
func (s *Service) React(ctx context.Context, profileID uuid.UUID, videoID uuid.UUID, reaction Reaction) (*Video, error) {
	if reaction != ReactionLike && reaction != ReactionDislike {
		return nil, ErrInvalidReaction
	}

	previous, err := s.reactions.Get(ctx, profileID, videoID)
	if err != nil {
		return nil, err
	}
	if previous == reaction {
		return s.store.GetByID(ctx, videoID)
	}

	var likeDelta, dislikeDelta int64
	if reaction == ReactionLike {
		likeDelta = 1
		if previous == ReactionDislike {
			dislikeDelta = -1
		}
	} else {
		dislikeDelta = 1
		if previous == ReactionLike {
			likeDelta = -1
		}
	}

	v, err := s.store.AdjustReactions(ctx, videoID, likeDelta, dislikeDelta)
	if err != nil {
		return nil, err
	}

	if err := s.reactions.Set(ctx, profileID, videoID, reaction); err != nil {
		log.Error().Err(err).Str("video_id", videoID.String()).Msg("failed to remember reaction")
	}
	return v, nil
}

// CompleteWatch records that the viewer finished the video
func (s *Service) CompleteWatch(ctx context.Context, profileID uuid.UUID, videoID uuid.UUID) (*request.Request, error) {
	if _, err := s.store.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	return s.watches.Watch(ctx, profileID, videoID.String())
}

// Delete removes the video and, for uploads, its stored file
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if v.SourceType == SourceUpload && v.StorageKey != "" {
		if err := s.media.Delete(ctx, v.StorageKey); err != nil {
			log.Error().Err(err).Str("key", v.StorageKey).Msg("failed to delete video file")
		}
	}

	log.Info().Str("video_id", id.String()).Msg("video deleted")
	return nil
}
