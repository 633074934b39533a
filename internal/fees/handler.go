package fees

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/configstore"
	"gatehouse/internal/transport/http/shared"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

// FeatureGate is the slice of the entitlement gate the quote path needs.
type FeatureGate interface {
	AssertEnabled(ctx context.Context, feature string) error
}

// PricingSource provides the pricing document in force.
type PricingSource interface {
	Pricing(ctx context.Context) (configstore.Pricing, error)
}

// Handler exposes ticket quoting. A quote is advisory: the same computation
// runs again at settlement against the pricing in force then.
type Handler struct {
	calc    *Calculator
	gate    FeatureGate
	pricing PricingSource
	logger  *slog.Logger
}

func NewHandler(calc *Calculator, gate FeatureGate, pricing PricingSource, logger *slog.Logger) *Handler {
	return &Handler{calc: calc, gate: gate, pricing: pricing, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/tickets/quote", h.handleQuote)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.gate.AssertEnabled(ctx, "ticketing"); err != nil {
		shared.WriteError(w, err)
		return
	}

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	pricing, err := h.pricing.Pricing(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pricing unavailable for quote",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	breakdown, err := h.calc.ComputeFees(req.BasePriceGBP, req.Quantity, pricing.PlatformFeePct, pricing.ProcessingFeeGBP)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, breakdown)
}
