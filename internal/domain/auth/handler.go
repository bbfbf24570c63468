package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/middleware"
	"github.com/easyselect/easyselect-api/internal/pkg/jwt"
	"github.com/easyselect/easyselect-api/internal/pkg/response"
	"github.com/easyselect/easyselect-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register. An already-registered phone logs in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone):
			response.BadRequest(w, "Phone number must contain at least 10 digits")
		default:
			log.Error().
				Err(err).
				Str("phone", req.Phone).
				Msg("failed to register profile")
			response.InternalError(w)
		}
		return
	}

	if result.IsNewUser {
		response.Created(w, result)
		return
	}
	response.OK(w, result)
}

// Referral handles GET /auth/referral?ref=<code>
func (h *Handler) Referral(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("ref")
	response.OK(w, h.service.CheckReferral(r.Context(), code))
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.GetProfileID(r.Context())

	p, err := h.service.CurrentProfile(r.Context(), profileID, tokenHashFrom(r))
	if err != nil {
		response.NotFound(w, "Profile not found")
		return
	}

	response.OK(w, p)
}

// UpdateMe handles PUT /auth/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profileID := middleware.GetProfileID(r.Context())
	p, err := h.service.UpdateName(r.Context(), profileID, tokenHashFrom(r), req.Name)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("failed to update profile name")
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.service.Logout(r.Context(), tokenHashFrom(r))
	response.NoContent(w)
}

func tokenHashFrom(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 {
		return ""
	}
	return jwt.HashToken(parts[1])
}
