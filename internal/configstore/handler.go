package configstore

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/transport/http/shared"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

// Handler exposes the administrative configuration endpoints. The router it
// registers on must already be guarded by the admin-token middleware.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterAdmin registers the config routes on an admin-scoped router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/config/features", h.handleGetFeatures)
	r.Put("/admin/config/features", h.handlePutFeatures)
	r.Get("/admin/config/pricing", h.handleGetPricing)
	r.Put("/admin/config/pricing", h.handlePutPricing)
	r.Get("/admin/config/limits", h.handleGetLimits)
	r.Put("/admin/config/limits", h.handlePutLimits)
	r.Get("/admin/config/admin-flags", h.handleGetAdminFlags)
	r.Put("/admin/config/admin-flags", h.handlePutAdminFlags)
}

func (h *Handler) handleGetFeatures(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Features(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "get features", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) handlePutFeatures(w http.ResponseWriter, r *http.Request) {
	var raw map[string]bool
	if err := decodeStrict(r, &raw); err != nil {
		shared.WriteError(w, err)
		return
	}
	f, err := h.service.UpdateFeatures(r.Context(), raw)
	if err != nil {
		h.writeServiceError(w, r, "update features", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) handleGetPricing(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Pricing(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "get pricing", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handlePutPricing(w http.ResponseWriter, r *http.Request) {
	var patch PricingPatch
	if err := decodeStrict(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	p, err := h.service.UpdatePricing(r.Context(), patch)
	if err != nil {
		h.writeServiceError(w, r, "update pricing", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Limits(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "get limits", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) handlePutLimits(w http.ResponseWriter, r *http.Request) {
	var patch LimitsPatch
	if err := decodeStrict(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	l, err := h.service.UpdateLimits(r.Context(), patch)
	if err != nil {
		h.writeServiceError(w, r, "update limits", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) handleGetAdminFlags(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.AdminFlags(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "get admin flags", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handlePutAdminFlags(w http.ResponseWriter, r *http.Request) {
	var patch AdminFlagsPatch
	if err := decodeStrict(r, &patch); err != nil {
		shared.WriteError(w, err)
		return
	}
	a, err := h.service.UpdateAdminFlags(r.Context(), patch)
	if err != nil {
		h.writeServiceError(w, r, "update admin flags", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeInvalidInput) || dErrors.HasCode(err, dErrors.CodeBadRequest) {
		h.logger.WarnContext(ctx, "invalid config update",
			"request_id", requestcontext.RequestID(ctx),
			"op", op,
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, "config operation failed",
			"request_id", requestcontext.RequestID(ctx),
			"op", op,
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}

// decodeStrict decodes a JSON body rejecting unknown fields, so a typo in an
// admin payload fails loudly instead of silently dropping the field.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
