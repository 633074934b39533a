package entitlement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/transport/http/shared"
)

// Handler exposes the gate's view for operators and debugging.
type Handler struct {
	gate *Gate
}

func NewHandler(gate *Gate) *Handler {
	return &Handler{gate: gate}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/entitlements/{feature}", h.handleGetFeature)
}

func (h *Handler) handleGetFeature(w http.ResponseWriter, r *http.Request) {
	view, err := h.gate.View(r.Context(), chi.URLParam(r, "feature"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}
