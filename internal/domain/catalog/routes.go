package catalog

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the public catalog router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/featured", h.Featured)
	r.Get("/id/{id}", h.Get)
	r.Get("/{network}", h.List)

	return r
}

// AdminRoutes returns the catalog management router. The caller mounts it
// behind admin auth.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAll)
	r.Post("/", h.Add)
	r.Post("/autofill", h.Autofill)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}
