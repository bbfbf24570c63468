package promotion

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/pkg/response"
	"github.com/easyselect/easyselect-api/internal/pkg/storage"
)

const maxUploadMemory = 8 << 20

// Handler handles promotion HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListActive handles GET /promotions
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list promotions")
		response.InternalError(w)
		return
	}
	response.OK(w, promotions)
}

// ListAll handles GET /admin/promotions
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list promotions")
		response.InternalError(w)
		return
	}
	response.OK(w, promotions)
}

// Upload handles POST /admin/promotions. Multipart with an "image" file and
// an optional "package_id" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	p, err := h.service.Upload(r.Context(), file, r.FormValue("package_id"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.BadRequest(w, "Image exceeds the maximum allowed size")
		case errors.Is(err, storage.ErrInvalidMimeType):
			response.BadRequest(w, "File must be a JPEG, PNG, WebP or GIF image")
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(w, "Image file is empty")
		default:
			log.Error().Err(err).Msg("failed to upload promotion")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, p)
}

// Delete handles DELETE /admin/promotions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid promotion id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPromotionNotFound) {
			response.NotFound(w, "Promotion not found")
			return
		}
		log.Error().Err(err).Msg("failed to delete promotion")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Routes returns the public promotion router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListActive)
	return r
}

// AdminRoutes returns the promotion management router
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAll)
	r.Post("/", h.Upload)
	r.Delete("/{id}", h.Delete)
	return r
}
