package venuescore

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/transport/http/shared"
)

// Handler exposes score reads and the admin recomputation endpoints.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/venues/{venueID}/score", h.handleGetScore)
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/venues/{venueID}/score/recompute", h.handleRecompute)
	r.Post("/admin/venues/recompute-scores", h.handleRecomputeAll)
}

func (h *Handler) handleGetScore(w http.ResponseWriter, r *http.Request) {
	components, err := h.engine.ComputeScore(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, components)
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	components, err := h.engine.Recompute(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, components)
}

func (h *Handler) handleRecomputeAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.RecomputeAll(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
