package ads

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easyselect/easyselect-api/internal/middleware"
	"github.com/easyselect/easyselect-api/internal/pkg/response"
)

// Handler handles ad gating HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Popunder handles GET /ads/popunder
func (h *Handler) Popunder(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.GetProfileID(r.Context())
	response.OK(w, map[string]bool{"show": h.service.ShouldShowPopunder(r.Context(), profileID)})
}

// Routes returns the ads router. The caller mounts it behind auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/popunder", h.Popunder)
	return r
}
