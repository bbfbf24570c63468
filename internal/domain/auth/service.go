package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/domain/profile"
	"github.com/easyselect/easyselect-api/internal/pkg/jwt"
)

// BonusProvider yields the currently configured welcome bonus
type BonusProvider interface {
	WelcomeBonus(ctx context.Context) (int, error)
}

// SessionStore holds the per-token profile snapshot
type SessionStore interface {
	Save(ctx context.Context, tokenHash string, p *profile.Profile) error
	Get(ctx context.Context, tokenHash string) *profile.Profile
	Delete(ctx context.Context, tokenHash string) error
}

// Service handles registration and login
type Service struct {
	profiles       profile.Repository
	registration   RegistrationRepository
	sessions       SessionStore
	jwtService     *jwt.Service
	bonuses        BonusProvider
	adminPhone     string
	referralCredit int64
}

func NewService(profiles profile.Repository, registration RegistrationRepository, sessions SessionStore, jwtService *jwt.Service, bonuses BonusProvider, adminPhone string, referralCredit int64) *Service {
	return &Service{
		profiles:       profiles,
		registration:   registration,
		sessions:       sessions,
		jwtService:     jwtService,
		bonuses:        bonuses,
		adminPhone:     adminPhone,
		referralCredit: referralCredit,
	}
}

// Register creates a profile or, when the phone is already registered, logs
// the existing profile back in unchanged. The supplied name is ignored on
// login; the referral code is honored only on first registration.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	phone := normalizePhone(req.Phone)
	if len(phone) < 10 {
		return nil, ErrInvalidPhone
	}

	// Existing phone: login, stored profile wins
	existing, err := s.profiles.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.establishSession(ctx, existing, false, 0)
	}

	bonus, err := s.bonuses.WelcomeBonus(ctx)
	if err != nil {
		return nil, err
	}

	// A referral code is the inviter's phone number. Self-referral and
	// unknown codes are silently ignored.
	referrerID := uuid.Nil
	if code := normalizePhone(req.ReferralCode); code != "" && code != phone {
		referrer, err := s.profiles.GetByPhone(ctx, code)
		if err != nil {
			return nil, err
		}
		if referrer != nil {
			referrerID = referrer.ID
		}
	}

	now := time.Now()
	p := &profile.Profile{
		ID:        uuid.New(),
		Name:      req.Name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registration.Register(ctx, p, int64(bonus), referrerID, s.referralCredit); err != nil {
		// Lost a race with a concurrent registration of the same phone:
		// the winner's profile is the account, log it in.
		if errors.Is(err, profile.ErrPhoneTaken) {
			winner, gerr := s.profiles.GetByPhone(ctx, phone)
			if gerr == nil && winner != nil {
				return s.establishSession(ctx, winner, false, 0)
			}
		}
		return nil, err
	}

	if referrerID != uuid.Nil {
		log.Info().Str("referrer_id", referrerID.String()).Int64("credit", s.referralCredit).Msg("referral credited")
	}

	return s.establishSession(ctx, p, true, int64(bonus))
}

// CheckReferral validates a referral code from the landing URL for form
// prefill. A code is valid when it belongs to an existing profile.
func (s *Service) CheckReferral(ctx context.Context, code string) *ReferralCheckResponse {
	normalized := normalizePhone(code)
	resp := &ReferralCheckResponse{Code: normalized}
	if normalized == "" {
		return resp
	}
	p, err := s.profiles.GetByPhone(ctx, normalized)
	if err != nil {
		log.Error().Err(err).Msg("referral lookup failed")
		return resp
	}
	resp.Valid = p != nil
	return resp
}

// CurrentProfile re-reads the store and refreshes the session snapshot, so
// referral credits earned while logged out appear after reload. When the
// store read fails, the last snapshot for this token serves the response
// instead, so a brief database outage does not log the profile out.
func (s *Service) CurrentProfile(ctx context.Context, profileID uuid.UUID, tokenHash string) (*ProfileResponse, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		cached := s.sessions.Get(ctx, tokenHash)
		if cached == nil || cached.ID != profileID {
			return nil, ErrProfileNotFound
		}
		log.Warn().Err(err).Str("profile_id", profileID.String()).Msg("profile store unavailable, serving session snapshot")
		resp := NewProfileResponse(cached.ID, cached.Name, cached.Phone, cached.Coins, s.roleFor(cached.Phone), cached.CreatedAt)
		return &resp, nil
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	if err := s.sessions.Save(ctx, tokenHash, p); err != nil {
		log.Warn().Err(err).Msg("failed to refresh session snapshot")
	}

	resp := NewProfileResponse(p.ID, p.Name, p.Phone, p.Coins, s.roleFor(p.Phone), p.CreatedAt)
	return &resp, nil
}

// UpdateName renames the profile and returns the refreshed view
func (s *Service) UpdateName(ctx context.Context, profileID uuid.UUID, tokenHash, name string) (*ProfileResponse, error) {
	if err := s.profiles.UpdateName(ctx, profileID, name); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.CurrentProfile(ctx, profileID, tokenHash)
}

// Logout discards the session snapshot
func (s *Service) Logout(ctx context.Context, tokenHash string) error {
	return s.sessions.Delete(ctx, tokenHash)
}

func (s *Service) establishSession(ctx context.Context, p *profile.Profile, isNew bool, bonus int64) (*AuthResponse, error) {
	role := s.roleFor(p.Phone)
	token, err := s.jwtService.Generate(p.ID, p.Phone, role)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, jwt.HashToken(token), p); err != nil {
		log.Warn().Err(err).Msg("failed to persist session snapshot")
	}

	return &AuthResponse{
		Profile:   NewProfileResponse(p.ID, p.Name, p.Phone, p.Coins, role, p.CreatedAt),
		Token:     token,
		ExpiresIn: int(s.jwtService.TTL().Seconds()),
		IsNewUser: isNew,
		Bonus:     bonus,
	}, nil
}

func (s *Service) roleFor(phone string) string {
	if phone == s.adminPhone {
		return jwt.RoleAdmin
	}
	return jwt.RoleUser
}
