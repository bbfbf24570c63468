package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/easyselect/easyselect-api/internal/domain/catalog"
	"github.com/easyselect/easyselect-api/internal/domain/coin"
	"github.com/easyselect/easyselect-api/internal/domain/profile"
)

type fakeStore struct {
	requests []*Request
}

func (f *fakeStore) CreateWithDebit(ctx context.Context, req *Request) error {
	req.CreatedAt = time.Now()
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeStore) Create(ctx context.Context, req *Request) error {
	req.CreatedAt = time.Now()
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrRequestNotFound
}

func (f *fakeStore) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Request, error) {
	out := []Request{}
	for _, r := range f.requests {
		if r.ProfileID == profileID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]Request, error) {
	out := []Request{}
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) Resolve(ctx context.Context, id uuid.UUID, status Status) (*Request, error) {
	for _, r := range f.requests {
		if r.ID == id {
			if r.Status != StatusPending {
				return nil, ErrAlreadyResolved
			}
			now := time.Now()
			r.Status = status
			r.ResolvedAt = &now
			return r, nil
		}
	}
	return nil, ErrRequestNotFound
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*profile.Profile
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return f.profiles[id], nil
}
func (f *fakeProfileRepo) GetByPhone(ctx context.Context, phone string) (*profile.Profile, error) {
	return nil, nil
}
func (f *fakeProfileRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return nil
}

type fakePackages struct {
	pkg *catalog.Package
}

func (f *fakePackages) GetByID(ctx context.Context, id string) (*catalog.Package, error) {
	if f.pkg != nil && f.pkg.ID == id {
		return f.pkg, nil
	}
	return nil, catalog.ErrPackageNotFound
}

type fixedMultiplier int

func (m fixedMultiplier) CoinMultiplier(ctx context.Context) (int, error) { return int(m), nil }

type recordingFeed struct {
	events []*Request
}

func (f *recordingFeed) NotifyCreated(req *Request) { f.events = append(f.events, req) }

func newPurchaseFixture(coins int64) (*Service, *fakeStore, *recordingFeed, uuid.UUID) {
	profileID := uuid.New()
	store := &fakeStore{}
	feed := &recordingFeed{}
	svc := NewService(
		store,
		&fakeProfileRepo{profiles: map[uuid.UUID]*profile.Profile{
			profileID: {ID: profileID, Name: "Ali", Phone: "03001234567", Coins: coins},
		}},
		&fakePackages{pkg: &catalog.Package{
			ID: "j1", Network: catalog.NetworkJazz, Name: "Monthly X Plus",
			Price: "2600", Code: "*872#", CoinRequired: true,
		}},
		fixedMultiplier(20),
		feed,
	)
	return svc, store, feed, profileID
}

func TestPurchaseCreatesPendingRequest(t *testing.T) {
	svc, store, feed, profileID := newPurchaseFixture(60000)

	req, err := svc.Purchase(context.Background(), profileID, &PurchaseRequest{
		PackageID:   "j1",
		TargetPhone: "03009998877",
	})
	if err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}

	if req.Status != StatusPending {
		t.Fatalf("expected Pending, got %s", req.Status)
	}
	if req.Kind != KindPurchase {
		t.Fatalf("expected purchase kind, got %s", req.Kind)
	}
	if req.Cost != 52000 {
		t.Fatalf("expected cost 2600*20=52000, got %d", req.Cost)
	}
	if req.PackageName != "Monthly X Plus" || req.PackageCode != "*872#" {
		t.Fatal("package snapshot missing")
	}
	if req.ProfilePhone != "03001234567" {
		t.Fatal("profile snapshot missing")
	}
	if len(store.requests) != 1 {
		t.Fatalf("expected 1 stored request, got %d", len(store.requests))
	}
	if len(feed.events) != 1 {
		t.Fatalf("expected 1 feed event, got %d", len(feed.events))
	}
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	svc, store, feed, profileID := newPurchaseFixture(51999)

	_, err := svc.Purchase(context.Background(), profileID, &PurchaseRequest{
		PackageID:   "j1",
		TargetPhone: "03009998877",
	})
	if !errors.Is(err, coin.ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("failed purchase must not store a request")
	}
	if len(feed.events) != 0 {
		t.Fatal("failed purchase must not reach the feed")
	}
}

func TestPurchaseUnknownPackage(t *testing.T) {
	svc, _, _, profileID := newPurchaseFixture(60000)

	_, err := svc.Purchase(context.Background(), profileID, &PurchaseRequest{
		PackageID:   "missing",
		TargetPhone: "03009998877",
	})
	if !errors.Is(err, catalog.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestPurchaseCoinFreePackageIgnoresBalance(t *testing.T) {
	profileID := uuid.New()
	store := &fakeStore{}
	svc := NewService(
		store,
		&fakeProfileRepo{profiles: map[uuid.UUID]*profile.Profile{
			profileID: {ID: profileID, Name: "Ali", Phone: "03001234567", Coins: 0},
		}},
		&fakePackages{pkg: &catalog.Package{
			ID: "t7", Network: catalog.NetworkTelenor, Name: "EasyCard 350",
			Price: "350", CoinRequired: false,
		}},
		fixedMultiplier(20),
		nil,
	)

	req, err := svc.Purchase(context.Background(), profileID, &PurchaseRequest{
		PackageID:   "t7",
		TargetPhone: "03009998877",
	})
	if err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}
	if req.Cost != 0 {
		t.Fatalf("coin-free package must cost 0, got %d", req.Cost)
	}
}

func TestWatchRecordsWatchedStatus(t *testing.T) {
	svc, store, _, profileID := newPurchaseFixture(0)

	videoID := uuid.New().String()
	req, err := svc.Watch(context.Background(), profileID, videoID)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	if req.Status != StatusWatched {
		t.Fatalf("expected Watched, got %s", req.Status)
	}
	if req.Kind != KindWatch {
		t.Fatalf("expected watch kind, got %s", req.Kind)
	}
	if req.VideoID == nil || *req.VideoID != videoID {
		t.Fatal("video id missing from watch record")
	}
	if len(store.requests) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.requests))
	}
}

func TestResolveIsOneWay(t *testing.T) {
	svc, store, _, profileID := newPurchaseFixture(60000)

	created, err := svc.Purchase(context.Background(), profileID, &PurchaseRequest{
		PackageID:   "j1",
		TargetPhone: "03009998877",
	})
	if err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), created.ID, StatusApproved)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.Status != StatusApproved {
		t.Fatalf("expected Approved, got %s", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Fatal("expected resolved_at to be set")
	}

	if _, err := svc.Resolve(context.Background(), created.ID, StatusRejected); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("second resolution must fail with ErrAlreadyResolved, got %v", err)
	}
	if store.requests[0].Status != StatusApproved {
		t.Fatal("terminal status must not change")
	}
}

func TestResolveRejectsInvalidStatus(t *testing.T) {
	svc, _, _, _ := newPurchaseFixture(0)

	if _, err := svc.Resolve(context.Background(), uuid.New(), StatusPending); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for Pending, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), uuid.New(), StatusWatched); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for Watched, got %v", err)
	}
}
