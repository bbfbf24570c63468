package coin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easyselect/easyselect-api/internal/middleware"
	"github.com/easyselect/easyselect-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Balance handles GET /coins/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.GetProfileID(r.Context())
	if profileID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), profileID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

// History handles GET /coins/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.GetProfileID(r.Context())
	if profileID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	txs, err := h.svc.GetHistory(r.Context(), profileID)
	if err != nil {
		response.InternalError(w)
		return
	}
	if txs == nil {
		txs = []Transaction{}
	}

	response.OK(w, txs)
}

// AdReward handles POST /coins/ad-reward
func (h *Handler) AdReward(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.GetProfileID(r.Context())
	if profileID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.RewardAdWatch(r.Context(), profileID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"balance": balance,
		"reward":  h.svc.AdRewardAmount(),
	})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/balance", h.Balance)
	r.Get("/history", h.History)
	r.Post("/ad-reward", h.AdReward)
	return r
}
