package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/domain/catalog"
	"github.com/easyselect/easyselect-api/internal/domain/coin"
	"github.com/easyselect/easyselect-api/internal/middleware"
	"github.com/easyselect/easyselect-api/internal/pkg/response"
	"github.com/easyselect/easyselect-api/internal/pkg/validator"
)

// WebSocket constants
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler handles request HTTP and feed endpoints
type Handler struct {
	service  *Service
	feed     *Feed
	upgrader websocket.Upgrader
}

func NewHandler(service *Service, feed *Feed, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		feed:    feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// Purchase handles POST /requests
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profileID := middleware.GetProfileID(r.Context())
	created, err := h.service.Purchase(r.Context(), profileID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrPackageNotFound):
			response.NotFound(w, "Package not found")
		case errors.Is(err, coin.ErrInsufficientCoins):
			response.Error(w, http.StatusPaymentRequired, "INSUFFICIENT_COINS", "Not enough coins for this bundle")
		default:
			log.Error().
				Err(err).
				Str("profile_id", profileID.String()).
				Str("package_id", req.PackageID).
				Msg("failed to create purchase request")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, created)
}

// History handles GET /requests
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.GetProfileID(r.Context())
	requests, err := h.service.History(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list requests")
		response.InternalError(w)
		return
	}
	response.OK(w, requests)
}

// ListAll handles GET /admin/requests
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list requests")
		response.InternalError(w)
		return
	}
	response.OK(w, requests)
}

// Resolve handles PUT /admin/requests/{id}
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request id")
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resolved, err := h.service.Resolve(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.NotFound(w, "Request not found")
		case errors.Is(err, ErrAlreadyResolved):
			response.Conflict(w, "Request is already resolved")
		case errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, "Status must be Approved or Rejected")
		default:
			log.Error().Err(err).Str("request_id", id.String()).Msg("failed to resolve request")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resolved)
}

// LiveFeed handles WS /ws/admin/requests
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	h.feed.Register(client)

	go h.feedReader(client)
	go h.feedWriter(client)
}

// feedReader drains control frames and detects disconnect; the feed is
// one-way so inbound messages are ignored.
func (h *Handler) feedReader(client *Connection) {
	defer func() {
		h.feed.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("request feed read error")
			}
			return
		}
	}
}

func (h *Handler) feedWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
