package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get handles GET /admin/settings
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		response.InternalError(w)
		return
	}
	response.OK(w, s)
}

// Update handles PUT /admin/settings
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	updated, err := h.svc.Update(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidValue) {
			response.BadRequest(w, "coin_multiplier must be positive and welcome_bonus non-negative")
			return
		}
		log.Error().Err(err).Msg("failed to update settings")
		response.InternalError(w)
		return
	}

	response.OK(w, updated)
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Update)
	return r
}
