package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/pkg/recognition"
	"github.com/easyselect/easyselect-api/internal/pkg/response"
	"github.com/easyselect/easyselect-api/internal/pkg/validator"
)

const maxAutofillImageSize = 10 << 20 // 10 MB

// Handler handles catalog HTTP requests
type Handler struct {
	service     *Service
	recognition *recognition.Client
}

func NewHandler(service *Service, recognition *recognition.Client) *Handler {
	return &Handler{service: service, recognition: recognition}
}

// List handles GET /packages/{network}?tab=&search=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	network := chi.URLParam(r, "network")
	if !validNetwork(network) {
		response.BadRequest(w, "Unknown network")
		return
	}

	packages, err := h.service.List(r.Context(), ListQuery{
		Network: network,
		Tab:     r.URL.Query().Get("tab"),
		Search:  r.URL.Query().Get("search"),
	})
	if err != nil {
		log.Error().Err(err).Str("network", network).Msg("failed to list packages")
		response.InternalError(w)
		return
	}

	response.OK(w, packages)
}

// Featured handles GET /packages/featured
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.ListFeatured(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list featured packages")
		response.InternalError(w)
		return
	}
	response.OK(w, packages)
}

// Get handles GET /packages/id/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.NotFound(w, "Package not found")
			return
		}
		log.Error().Err(err).Msg("failed to get package")
		response.InternalError(w)
		return
	}
	response.OK(w, p)
}

// ListAll handles GET /admin/packages
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list packages")
		response.InternalError(w)
		return
	}
	response.OK(w, packages)
}

// Add handles POST /admin/packages
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req PackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Add(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			response.Conflict(w, "Package with this id already exists")
			return
		}
		log.Error().Err(err).Msg("failed to add package")
		response.InternalError(w)
		return
	}

	response.Created(w, p)
}

// Update handles PUT /admin/packages/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req PackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.NotFound(w, "Package not found")
			return
		}
		log.Error().Err(err).Msg("failed to update package")
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// Delete handles DELETE /admin/packages/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.NotFound(w, "Package not found")
			return
		}
		log.Error().Err(err).Msg("failed to delete package")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Autofill handles POST /admin/packages/autofill. It accepts a multipart
// image and returns field suggestions extracted by the vision API.
func (h *Handler) Autofill(w http.ResponseWriter, r *http.Request) {
	if !h.recognition.Configured() {
		response.Error(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Image recognition is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAutofillImageSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxAutofillImageSize {
		response.BadRequest(w, "Image is too large")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAutofillImageSize))
	if err != nil {
		response.BadRequest(w, "Failed to read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	fields, err := h.recognition.Analyze(r.Context(), data, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, recognition.ErrUnrecognized):
			response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "UNRECOGNIZED", "Could not read package details from the image", nil)
		default:
			log.Error().Err(err).Msg("recognition request failed")
			response.BadGateway(w, "Image recognition failed")
		}
		return
	}

	response.OK(w, fields)
}

func validNetwork(s string) bool {
	for _, n := range Networks() {
		if string(n) == s {
			return true
		}
	}
	return false
}
