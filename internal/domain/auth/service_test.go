package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/easyselect/easyselect-api/internal/domain/profile"
	"github.com/easyselect/easyselect-api/internal/pkg/jwt"
)

type fakeProfiles struct {
	byPhone map[string]*profile.Profile
	readErr error

	// when set, the first phone lookup misses, as seen by the loser of a
	// concurrent registration race
	missFirstLookup bool
	phoneLookups    int
}

func (f *fakeProfiles) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, p := range f.byPhone {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) GetByPhone(ctx context.Context, phone string) (*profile.Profile, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.phoneLookups++
	if f.missFirstLookup && f.phoneLookups == 1 {
		return nil, nil
	}
	return f.byPhone[phone], nil
}

func (f *fakeProfiles) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	for _, p := range f.byPhone {
		if p.ID == id {
			p.Name = name
			return nil
		}
	}
	return profile.ErrProfileNotFound
}

type fakeSessions struct {
	snapshots map[string]*profile.Profile
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{snapshots: make(map[string]*profile.Profile)}
}

func (f *fakeSessions) Save(ctx context.Context, tokenHash string, p *profile.Profile) error {
	copied := *p
	f.snapshots[tokenHash] = &copied
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, tokenHash string) *profile.Profile {
	return f.snapshots[tokenHash]
}

func (f *fakeSessions) Delete(ctx context.Context, tokenHash string) error {
	delete(f.snapshots, tokenHash)
	return nil
}

type fakeRegistration struct {
	profiles *fakeProfiles

	err            error
	called         bool
	welcomeBonus   int64
	referrerID     uuid.UUID
	referralCredit int64
}

func (f *fakeRegistration) Register(ctx context.Context, p *profile.Profile, welcomeBonus int64, referrerID uuid.UUID, referralCredit int64) error {
	if f.err != nil {
		return f.err
	}
	f.called = true
	f.welcomeBonus = welcomeBonus
	f.referrerID = referrerID
	f.referralCredit = referralCredit

	p.Coins = welcomeBonus
	f.profiles.byPhone[p.Phone] = p
	if referrerID != uuid.Nil {
		for _, r := range f.profiles.byPhone {
			if r.ID == referrerID {
				r.Coins += referralCredit
			}
		}
	}
	return nil
}

type fakeBonuses struct {
	bonus int
}

func (f *fakeBonuses) WelcomeBonus(ctx context.Context) (int, error) {
	return f.bonus, nil
}

const testAdminPhone = "03198428224"

func newTestService(t *testing.T) (*Service, *fakeProfiles, *fakeRegistration, *fakeSessions) {
	t.Helper()

	profiles := &fakeProfiles{byPhone: make(map[string]*profile.Profile)}
	registration := &fakeRegistration{profiles: profiles}
	sessions := newFakeSessions()
	svc := NewService(
		profiles,
		registration,
		sessions,
		jwt.NewService("test-secret", time.Hour),
		&fakeBonuses{bonus: 20},
		testAdminPhone,
		100,
	)
	return svc, profiles, registration, sessions
}

func TestRegisterNewProfile(t *testing.T) {
	svc, _, registration, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:  "Ali",
		Phone: "0300 1234567",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if !resp.IsNewUser {
		t.Fatal("expected IsNewUser for fresh phone")
	}
	if resp.Bonus != 20 {
		t.Fatalf("expected bonus 20, got %d", resp.Bonus)
	}
	if resp.Profile.Coins != 20 {
		t.Fatalf("expected starting balance 20, got %d", resp.Profile.Coins)
	}
	if resp.Profile.Phone != "03001234567" {
		t.Fatalf("phone not normalized: %q", resp.Profile.Phone)
	}
	if resp.Profile.Role != jwt.RoleUser {
		t.Fatalf("expected user role, got %q", resp.Profile.Role)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if !registration.called {
		t.Fatal("expected registration write")
	}
	if registration.welcomeBonus != 20 {
		t.Fatalf("registration got bonus %d", registration.welcomeBonus)
	}
}

func TestRegisterExistingPhoneLogsIn(t *testing.T) {
	svc, profiles, registration, _ := newTestService(t)

	existing := &profile.Profile{
		ID:    uuid.New(),
		Name:  "Original",
		Phone: "03001234567",
		Coins: 500,
	}
	profiles.byPhone[existing.Phone] = existing

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:  "Impostor",
		Phone: "0300-1234567",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if resp.IsNewUser {
		t.Fatal("existing phone must log in, not register")
	}
	if resp.Bonus != 0 {
		t.Fatalf("login must not grant a bonus, got %d", resp.Bonus)
	}
	if resp.Profile.Name != "Original" {
		t.Fatalf("stored profile must win, got name %q", resp.Profile.Name)
	}
	if resp.Profile.Coins != 500 {
		t.Fatalf("stored balance must win, got %d", resp.Profile.Coins)
	}
	if registration.called {
		t.Fatal("login must not write a registration")
	}
}

func TestRegisterShortPhoneRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:  "Ali",
		Phone: "12345",
	})
	if err != ErrInvalidPhone {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestRegisterSelfReferralIgnored(t *testing.T) {
	svc, _, registration, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:         "Ali",
		Phone:        "03001234567",
		ReferralCode: "0300 123 4567",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if registration.referrerID != uuid.Nil {
		t.Fatal("self-referral must not credit anyone")
	}
}

func TestRegisterUnknownReferralIgnored(t *testing.T) {
	svc, _, registration, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:         "Ali",
		Phone:        "03001234567",
		ReferralCode: "03009999999",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if registration.referrerID != uuid.Nil {
		t.Fatal("unknown code must not credit anyone")
	}
}

func TestRegisterReferralCreditsInviter(t *testing.T) {
	svc, profiles, registration, _ := newTestService(t)

	referrer := &profile.Profile{
		ID:    uuid.New(),
		Name:  "Inviter",
		Phone: "03007777777",
		Coins: 40,
	}
	profiles.byPhone[referrer.Phone] = referrer

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:         "Ali",
		Phone:        "03001234567",
		ReferralCode: referrer.Phone,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if registration.referrerID != referrer.ID {
		t.Fatalf("expected referrer %s, got %s", referrer.ID, registration.referrerID)
	}
	if registration.referralCredit != 100 {
		t.Fatalf("expected referral credit 100, got %d", registration.referralCredit)
	}
	if referrer.Coins != 140 {
		t.Fatalf("expected referrer balance 140, got %d", referrer.Coins)
	}
}

func TestRegisterAdminPhoneGetsAdminRole(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:  "Admin",
		Phone: testAdminPhone,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if resp.Profile.Role != jwt.RoleAdmin {
		t.Fatalf("expected admin role, got %q", resp.Profile.Role)
	}
}

func TestCheckReferral(t *testing.T) {
	svc, profiles, _, _ := newTestService(t)

	profiles.byPhone["03007777777"] = &profile.Profile{ID: uuid.New(), Phone: "03007777777"}

	if resp := svc.CheckReferral(context.Background(), "0300 777 7777"); !resp.Valid {
		t.Fatal("expected known phone to validate")
	}
	if resp := svc.CheckReferral(context.Background(), "03001111111"); resp.Valid {
		t.Fatal("expected unknown phone to be invalid")
	}
	if resp := svc.CheckReferral(context.Background(), ""); resp.Valid {
		t.Fatal("expected empty code to be invalid")
	}
}

func TestRegisterRaceLogsInWinner(t *testing.T) {
	svc, profiles, registration, _ := newTestService(t)

	// The loser's pre-insert lookup misses, its insert then hits the
	// unique phone index, and by that point the winner's row exists.
	winner := &profile.Profile{
		ID:    uuid.New(),
		Name:  "Winner",
		Phone: "03001234567",
		Coins: 20,
	}
	profiles.byPhone[winner.Phone] = winner
	profiles.missFirstLookup = true
	registration.err = profile.ErrPhoneTaken

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:  "Loser",
		Phone: "0300 1234567",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if resp.IsNewUser {
		t.Fatal("losing the registration race must log in, not register")
	}
	if resp.Profile.Name != "Winner" {
		t.Fatalf("expected the winner's profile, got name %q", resp.Profile.Name)
	}
	if resp.Bonus != 0 {
		t.Fatalf("race fallback must not grant a bonus, got %d", resp.Bonus)
	}
}

func TestCurrentProfileRefreshesSnapshot(t *testing.T) {
	svc, profiles, _, sessions := newTestService(t)

	p := &profile.Profile{ID: uuid.New(), Name: "Ali", Phone: "03001234567", Coins: 120}
	profiles.byPhone[p.Phone] = p

	resp, err := svc.CurrentProfile(context.Background(), p.ID, "hash-1")
	if err != nil {
		t.Fatalf("CurrentProfile returned error: %v", err)
	}
	if resp.Coins != 120 {
		t.Fatalf("expected store balance 120, got %d", resp.Coins)
	}

	cached := sessions.Get(context.Background(), "hash-1")
	if cached == nil {
		t.Fatal("expected snapshot refreshed on read")
	}
	if cached.Coins != 120 || cached.ID != p.ID {
		t.Fatalf("snapshot out of sync with store: %+v", cached)
	}
}

func TestCurrentProfileServesSnapshotWhenStoreDown(t *testing.T) {
	svc, profiles, _, sessions := newTestService(t)

	p := &profile.Profile{ID: uuid.New(), Name: "Ali", Phone: "03001234567", Coins: 80}
	sessions.Save(context.Background(), "hash-1", p)
	profiles.readErr = errors.New("connection refused")

	resp, err := svc.CurrentProfile(context.Background(), p.ID, "hash-1")
	if err != nil {
		t.Fatalf("expected snapshot to serve the read, got %v", err)
	}
	if resp.Name != "Ali" || resp.Coins != 80 {
		t.Fatalf("expected the cached profile, got %+v", resp)
	}
}

func TestCurrentProfileStoreDownNoSnapshot(t *testing.T) {
	svc, profiles, _, _ := newTestService(t)

	profiles.readErr = errors.New("connection refused")

	if _, err := svc.CurrentProfile(context.Background(), uuid.New(), "hash-1"); err != ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestCurrentProfileRejectsForeignSnapshot(t *testing.T) {
	svc, profiles, _, sessions := newTestService(t)

	other := &profile.Profile{ID: uuid.New(), Phone: "03009999999", Coins: 999}
	sessions.Save(context.Background(), "hash-1", other)
	profiles.readErr = errors.New("connection refused")

	if _, err := svc.CurrentProfile(context.Background(), uuid.New(), "hash-1"); err != ErrProfileNotFound {
		t.Fatalf("a snapshot for another profile must not serve the read, got %v", err)
	}
}

func TestUpdateName(t *testing.T) {
	svc, profiles, _, sessions := newTestService(t)

	p := &profile.Profile{ID: uuid.New(), Name: "Ali", Phone: "03001234567", Coins: 20}
	profiles.byPhone[p.Phone] = p

	resp, err := svc.UpdateName(context.Background(), p.ID, "hash-1", "Ali Raza")
	if err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if resp.Name != "Ali Raza" {
		t.Fatalf("expected renamed profile, got %q", resp.Name)
	}
	if cached := sessions.Get(context.Background(), "hash-1"); cached == nil || cached.Name != "Ali Raza" {
		t.Fatalf("expected snapshot refreshed after rename, got %+v", cached)
	}
}

func TestUpdateNameUnknownProfile(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.UpdateName(context.Background(), uuid.New(), "hash-1", "Ali"); err != ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestLogoutDiscardsSnapshot(t *testing.T) {
	svc, _, _, sessions := newTestService(t)

	sessions.Save(context.Background(), "hash-1", &profile.Profile{ID: uuid.New()})
	if err := svc.Logout(context.Background(), "hash-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if sessions.Get(context.Background(), "hash-1") != nil {
		t.Fatal("expected snapshot discarded on logout")
	}
}
