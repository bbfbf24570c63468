package promotion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/pkg/imaging"
	"github.com/easyselect/easyselect-api/internal/pkg/storage"
)

// Service handles banner upload, listing and removal
type Service struct {
	store     Store
	media     storage.Storage
	processor *imaging.Processor
	now       func() time.Time
}

func NewService(store Store, media storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		store:     store,
		media:     media,
		processor: processor,
		now:       time.Now,
	}
}

// ListActive returns banners still inside their visibility window
func (s *Service) ListActive(ctx context.Context) ([]Promotion, error) {
	return s.store.ListActive(ctx, s.now().Add(-VisibilityWindow))
}

// ListAll returns every banner with its expiry state for the admin console
func (s *Service) ListAll(ctx context.Context) ([]AdminPromotion, error) {
	promotions, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]AdminPromotion, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, AdminPromotion{Promotion: p, Expired: !p.Active(now)})
	}
	return out, nil
}

// Upload validates, resizes and stores a banner image, then records the
// promotion. packageID of "" means the banner links nowhere.
func (s *Service) Upload(ctx context.Context, image io.Reader, packageID string) (*Promotion, error) {
	buf, _, err := storage.ValidateAndBuffer(image, storage.CategoryPromotionImage)
	if err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(buf)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := fmt.Sprintf("promotions/%s%s", id, storage.ExtensionForMime(processed.ContentType))
	if err := s.media.Put(ctx, key, bytes.NewReader(processed.Data), processed.ContentType); err != nil {
		return nil, err
	}

	p := &Promotion{
		ID:       id,
		ImageURL: s.media.GetURL(key),
		ImageKey: key,
	}
	if packageID != "" {
		p.PackageID = &packageID
	}

	if err := s.store.Create(ctx, p); err != nil {
		// Keep storage consistent with the table
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to clean up banner after insert failure")
		}
		return nil, err
	}

	log.Info().Str("promotion_id", id.String()).Msg("promotion created")
	return p, nil
}

// Delete removes the promotion and its stored image
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.media.Delete(ctx, p.ImageKey); err != nil {
		log.Error().Err(err).Str("key", p.ImageKey).Msg("failed to delete banner image")
	}

	log.Info().Str("promotion_id", id.String()).Msg("promotion deleted")
	return nil
}
