package promotion

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/easyselect/easyselect-api/internal/pkg/imaging"
	"github.com/easyselect/easyselect-api/internal/pkg/storage"
)

type memoryStore struct {
	promotions map[uuid.UUID]*Promotion
}

func newMemoryStore(promotions ...*Promotion) *memoryStore {
	m := &memoryStore{promotions: make(map[uuid.UUID]*Promotion)}
	for _, p := range promotions {
		m.promotions[p.ID] = p
	}
	return m
}

func (m *memoryStore) Create(ctx context.Context, p *Promotion) error {
	p.CreatedAt = time.Now()
	m.promotions[p.ID] = p
	return nil
}

func (m *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	if p, ok := m.promotions[id]; ok {
		return p, nil
	}
	return nil, ErrPromotionNotFound
}

func (m *memoryStore) ListActive(ctx context.Context, since time.Time) ([]Promotion, error) {
	out := []Promotion{}
	for _, p := range m.promotions {
		if p.CreatedAt.After(since) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryStore) ListAll(ctx context.Context) ([]Promotion, error) {
	out := []Promotion{}
	for _, p := range m.promotions {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.promotions[id]; !ok {
		return ErrPromotionNotFound
	}
	delete(m.promotions, id)
	return nil
}

type memoryMedia struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryMedia() *memoryMedia {
	return &memoryMedia{objects: make(map[string][]byte)}
}

func (m *memoryMedia) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryMedia) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if data, ok := m.objects[key]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, errors.New("not found")
}

func (m *memoryMedia) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryMedia) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryMedia) GetURL(key string) string { return "https://cdn.test/" + key }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestService(store Store, media storage.Storage) *Service {
	return NewService(store, media, imaging.NewProcessor(imaging.DefaultConfig()))
}

func TestUploadStoresBannerAndRecord(t *testing.T) {
	store := newMemoryStore()
	media := newMemoryMedia()
	svc := newTestService(store, media)

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "j1")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if p.PackageID == nil || *p.PackageID != "j1" {
		t.Fatal("package link missing")
	}
	if !strings.HasPrefix(p.ImageURL, "https://cdn.test/promotions/") {
		t.Fatalf("unexpected image url %q", p.ImageURL)
	}
	if len(media.objects) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(media.objects))
	}
	if _, ok := store.promotions[p.ID]; !ok {
		t.Fatal("promotion record missing")
	}
}

func TestUploadWithoutPackageLink(t *testing.T) {
	svc := newTestService(newMemoryStore(), newMemoryMedia())

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if p.PackageID != nil {
		t.Fatal("empty package id must not be linked")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	media := newMemoryMedia()
	svc := newTestService(newMemoryStore(), media)

	_, err := svc.Upload(context.Background(), strings.NewReader("definitely not an image"), "")
	if !errors.Is(err, storage.ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
	if len(media.objects) != 0 {
		t.Fatal("rejected upload must not reach storage")
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newTestService(newMemoryStore(), newMemoryMedia())

	_, err := svc.Upload(context.Background(), strings.NewReader(""), "")
	if !errors.Is(err, storage.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestDeleteRemovesImage(t *testing.T) {
	store := newMemoryStore()
	media := newMemoryMedia()
	svc := newTestService(store, media)

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.promotions) != 0 {
		t.Fatal("promotion record must be gone")
	}
	if len(media.deleted) != 1 || media.deleted[0] != p.ImageKey {
		t.Fatal("stored image must be deleted with the record")
	}
}

func TestDeleteUnknownPromotion(t *testing.T) {
	svc := newTestService(newMemoryStore(), newMemoryMedia())

	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrPromotionNotFound) {
		t.Fatalf("expected ErrPromotionNotFound, got %v", err)
	}
}

func TestListAllFlagsExpired(t *testing.T) {
	now := time.Now()
	stale := &Promotion{ID: uuid.New(), CreatedAt: now.Add(-25 * time.Hour)}
	fresh := &Promotion{ID: uuid.New(), CreatedAt: now.Add(-time.Hour)}

	svc := newTestService(newMemoryStore(stale, fresh), newMemoryMedia())
	svc.now = func() time.Time { return now }

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 promotions, got %d", len(got))
	}
	for _, p := range got {
		if p.ID == stale.ID && !p.Expired {
			t.Fatal("stale promotion must be flagged expired")
		}
		if p.ID == fresh.ID && p.Expired {
			t.Fatal("fresh promotion must not be flagged expired")
		}
	}
}
