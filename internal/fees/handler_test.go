package fees

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/configstore"
	"gatehouse/internal/entitlement"
	"gatehouse/pkg/testutil"
)

func newQuoteRouter(t *testing.T) (chi.Router, *configstore.Service, *entitlement.Gate) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg, err := configstore.New(configstore.NewInMemoryStore(), configstore.WithLogger(logger))
	require.NoError(t, err)
	gate := entitlement.New(cfg, entitlement.WithLogger(logger))

	r := chi.NewRouter()
	NewHandler(NewCalculator(2.9, 0.20), gate, cfg, logger).Register(r)
	return r, cfg, gate
}

func postQuote(t *testing.T, r chi.Router, req QuoteRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tickets/quote", bytes.NewReader(body)))
	return rec
}

func TestQuote_UsesCurrentPricing(t *testing.T) {
	r, _, _ := newQuoteRouter(t)

	rec := postQuote(t, r, QuoteRequest{BasePriceGBP: 20, Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	var b FeeBreakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	// Default pricing: 8% platform fee, £1 processing fee.
	assert.Equal(t, 4.80, b.PlatformFeeGBP)
	assert.Equal(t, 61.00, b.GuestTotalGBP)
}

func TestQuote_DeniedWhenTicketingDisabled(t *testing.T) {
	r, cfg, gate := newQuoteRouter(t)

	features := map[string]bool{
		"ticketing":      false,
		"map":            true,
		"ai":             true,
		"doorScan":       true,
		"court":          true,
		"refundsEnabled": true,
		"newSignups":     true,
	}
	_, err := cfg.UpdateFeatures(t.Context(), features)
	require.NoError(t, err)
	gate.Invalidate(configstore.DocFeatures)

	rec := postQuote(t, r, QuoteRequest{BasePriceGBP: 20, Quantity: 3})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQuote_DeniedUnderGlobalReadOnly(t *testing.T) {
	r, cfg, gate := newQuoteRouter(t)

	testutil.Given(t, "the platform kill-switch is on", func(t *testing.T) {
		on := true
		_, err := cfg.UpdateAdminFlags(t.Context(), configstore.AdminFlagsPatch{GlobalReadOnly: &on})
		require.NoError(t, err)
		gate.Invalidate(configstore.DocAdminFlags)
	})

	testutil.Then(t, "quoting is denied with the read-only reason", func(t *testing.T) {
		rec := postQuote(t, r, QuoteRequest{BasePriceGBP: 20, Quantity: 3})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "global_read_only", body["error"])
	})
}

func TestQuote_InvalidQuantityRejected(t *testing.T) {
	r, _, _ := newQuoteRouter(t)

	rec := postQuote(t, r, QuoteRequest{BasePriceGBP: 20, Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
