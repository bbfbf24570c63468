package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /auth/register. The same endpoint logs an
// existing phone number back in, ignoring the supplied name.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,pk_phone"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=20"`
}

// AuthResponse returned after register/login
type AuthResponse struct {
	Profile   ProfileResponse `json:"profile"`
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in"` // seconds until token expires
	IsNewUser bool            `json:"is_new_user"`
	Bonus     int64           `json:"bonus,omitempty"` // welcome bonus shown in the popup
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Coins     int64     `json:"coins"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

// UpdateProfileRequest for PUT /auth/me. Only the display name is
// editable; phone is the identity and coins move through the ledger.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// ReferralCheckResponse for GET /auth/referral
type ReferralCheckResponse struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
}

// NewProfileResponse creates ProfileResponse from profile data
func NewProfileResponse(id uuid.UUID, name, phone string, coins int64, role string, createdAt time.Time) ProfileResponse {
	return ProfileResponse{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Coins:     coins,
		Role:      role,
		CreatedAt: createdAt.Format(time.RFC3339),
	}
}
