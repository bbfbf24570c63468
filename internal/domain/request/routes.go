package request

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the profile-facing request router. The caller mounts it
// behind auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Purchase)
	r.Get("/", h.History)

	return r
}

// AdminRoutes returns the resolution router. The caller mounts it behind
// admin auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAll)
	r.Put("/{id}", h.Resolve)

	return r
}
