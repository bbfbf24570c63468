package settings

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	values map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{values: make(map[string]int)}
}

func (f *fakeRepo) Get(ctx context.Context, key string) (int, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeRepo) Set(ctx context.Context, key string, value int) error {
	f.values[key] = value
	return nil
}

func TestDefaultsWhenUnset(t *testing.T) {
	svc := NewService(newFakeRepo(), 20, 20)

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CoinMultiplier != 20 {
		t.Errorf("expected default multiplier 20, got %d", got.CoinMultiplier)
	}
	if got.WelcomeBonus != 20 {
		t.Errorf("expected default bonus 20, got %d", got.WelcomeBonus)
	}
}

func TestUpdateOverridesDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 20, 20)

	updated, err := svc.Update(context.Background(), Settings{CoinMultiplier: 25, WelcomeBonus: 50})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CoinMultiplier != 25 || updated.WelcomeBonus != 50 {
		t.Errorf("unexpected updated settings: %+v", updated)
	}

	multiplier, err := svc.CoinMultiplier(context.Background())
	if err != nil {
		t.Fatalf("CoinMultiplier: %v", err)
	}
	if multiplier != 25 {
		t.Errorf("expected stored multiplier 25, got %d", multiplier)
	}
	bonus, err := svc.WelcomeBonus(context.Background())
	if err != nil {
		t.Fatalf("WelcomeBonus: %v", err)
	}
	if bonus != 50 {
		t.Errorf("expected stored bonus 50, got %d", bonus)
	}
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 20, 20)

	cases := []Settings{
		{CoinMultiplier: 0, WelcomeBonus: 20},
		{CoinMultiplier: -5, WelcomeBonus: 20},
		{CoinMultiplier: 20, WelcomeBonus: -1},
	}
	for _, in := range cases {
		if _, err := svc.Update(context.Background(), in); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Update(%+v): expected ErrInvalidValue, got %v", in, err)
		}
	}
	if len(repo.values) != 0 {
		t.Errorf("expected no writes after rejected updates, got %v", repo.values)
	}
}

func TestZeroWelcomeBonusAllowed(t *testing.T) {
	svc := NewService(newFakeRepo(), 20, 20)

	if _, err := svc.Update(context.Background(), Settings{CoinMultiplier: 20, WelcomeBonus: 0}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	bonus, err := svc.WelcomeBonus(context.Background())
	if err != nil {
		t.Fatalf("WelcomeBonus: %v", err)
	}
	if bonus != 0 {
		t.Errorf("expected bonus 0 after disabling, got %d", bonus)
	}
}
