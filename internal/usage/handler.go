package usage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/transport/http/shared"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

// FeatureGate is the slice of the entitlement gate the consumption path
// needs.
type FeatureGate interface {
	AssertEnabled(ctx context.Context, feature string) error
}

// Handler exposes the AI usage limiter. The identity-scoped routes require a
// bearer token; the reset route lives on the admin router.
type Handler struct {
	service *Service
	gate    FeatureGate
}

func NewHandler(service *Service, gate FeatureGate) *Handler {
	return &Handler{service: service, gate: gate}
}

// Register registers the identity-scoped routes. The router must already run
// the JWT auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/usage/ai", h.handleCheck)
	r.Post("/usage/ai/increment", h.handleIncrement)
}

// RegisterAdmin registers the support remediation route on an admin-scoped
// router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/usage/{identity}/reset", h.handleReset)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID := requestcontext.IdentityID(ctx)
	if identityID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing identity"))
		return
	}
	result, err := h.service.CheckLimit(ctx, identityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleIncrement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID := requestcontext.IdentityID(ctx)
	if identityID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing identity"))
		return
	}
	if err := h.gate.AssertEnabled(ctx, "ai"); err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.service.Consume(ctx, identityID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

type resetRequest struct {
	Day string `json:"day,omitempty"`
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identityID := chi.URLParam(r, "identity")

	day := requestcontext.Now(ctx)
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Day != "" {
		parsed, err := time.Parse("2006-01-02", req.Day)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "day must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	if err := h.service.Reset(ctx, identityID, day); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"identity": identityID,
		"bucket":   BucketKey(identityID, day),
	})
}
