package video

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/middleware"
	"github.com/easyselect/easyselect-api/internal/pkg/response"
	"github.com/easyselect/easyselect-api/internal/pkg/storage"
	"github.com/easyselect/easyselect-api/internal/pkg/validator"
)

const maxUploadMemory = 32 << 20

// Handler handles video HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListActive handles GET /videos
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list videos")
		response.InternalError(w)
		return
	}
	response.OK(w, videos)
}

// React handles POST /videos/{id}/react
func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid video id")
		return
	}

	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profileID := middleware.GetProfileID(r.Context())
	v, err := h.service.React(r.Context(), profileID, id, Reaction(req.Reaction))
	if err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			response.NotFound(w, "Video not found")
		case errors.Is(err, ErrInvalidReaction):
			response.BadRequest(w, "Reaction must be like or dislike")
		default:
			log.Error().Err(err).Str("video_id", id.String()).Msg("failed to record reaction")
			response.InternalError(w)
		}
		return
	}
	response.OK(w, v)
}

// CompleteWatch handles POST /videos/{id}/watched
func (h *Handler) CompleteWatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid video id")
		return
	}

	profileID := middleware.GetProfileID(r.Context())
	record, err := h.service.CompleteWatch(r.Context(), profileID, id)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			response.NotFound(w, "Video not found")
			return
		}
		log.Error().Err(err).Str("video_id", id.String()).Msg("failed to record watch")
		response.InternalError(w)
		return
	}
	response.Created(w, record)
}

// ListAll handles GET /admin/videos
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list videos")
		response.InternalError(w)
		return
	}
	response.OK(w, videos)
}

// AddEmbed handles POST /admin/videos/embed
func (h *Handler) AddEmbed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	v, err := h.service.AddEmbed(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("failed to publish embed video")
		response.InternalError(w)
		return
	}
	response.Created(w, v)
}

// Upload handles POST /admin/videos. Multipart with a "video" file plus
// "title" and "duration" fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	title := r.FormValue("title")
	if len(title) < 2 {
		response.BadRequest(w, "Title is required")
		return
	}
	duration, err := strconv.Atoi(r.FormValue("duration"))
	if err != nil || duration < 1 {
		response.BadRequest(w, "Duration must be a positive number of minutes")
		return
	}

	file, _, err := r.FormFile("video")
	if err != nil {
		response.BadRequest(w, "Video file is required")
		return
	}
	defer file.Close()

	v, err := h.service.Upload(r.Context(), file, title, duration)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.BadRequest(w, "Video exceeds the maximum allowed size")
		case errors.Is(err, storage.ErrInvalidMimeType):
			response.BadRequest(w, "File must be an MP4 or WebM video")
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(w, "Video file is empty")
		default:
			log.Error().Err(err).Msg("failed to upload video")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, v)
}

// Delete handles DELETE /admin/videos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid video id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			response.NotFound(w, "Video not found")
			return
		}
		log.Error().Err(err).Msg("failed to delete video")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Routes returns the viewer-facing video router. The caller mounts it
// behind auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListActive)
	r.Post("/{id}/react", h.React)
	r.Post("/{id}/watched", h.CompleteWatch)
	return r
}

// AdminRoutes returns the video management router
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAll)
	r.Post("/", h.Upload)
	r.Post("/embed", h.AddEmbed)
	r.Delete("/{id}", h.Delete)
	return r
}
