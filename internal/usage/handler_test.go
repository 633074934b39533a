package usage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/configstore"
	"gatehouse/internal/entitlement"
	"gatehouse/pkg/requestcontext"
)

func newUsageRouter(t *testing.T, identityID string) chi.Router {
	t.Helper()
	cfg, err := configstore.New(configstore.NewInMemoryStore())
	require.NoError(t, err)
	gate := entitlement.New(cfg)
	svc := New(NewInMemoryStore(), cfg,
		WithLogger(discardLogger()), WithClock(fixedClock(noon)))
	h := NewHandler(svc, gate)

	r := chi.NewRouter()
	if identityID != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(
					requestcontext.WithIdentityID(req.Context(), identityID)))
			})
		})
	}
	h.Register(r)
	h.RegisterAdmin(r)
	return r
}

func TestUsageHandler_CheckAndIncrement(t *testing.T) {
	r := newUsageRouter(t, "guest-1")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usage/ai", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result CheckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.CurrentUsage)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/usage/ai/increment", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.CurrentUsage)
}

func TestUsageHandler_ExhaustionReturns429WithResetTime(t *testing.T) {
	cfg, err := configstore.New(configstore.NewInMemoryStore())
	require.NoError(t, err)
	five := 5
	_, err = cfg.UpdateLimits(t.Context(), configstore.LimitsPatch{AIGuestDailyMessages: &five})
	require.NoError(t, err)

	gate := entitlement.New(cfg)
	svc := New(NewInMemoryStore(), cfg,
		WithLogger(discardLogger()), WithClock(fixedClock(noon)))
	h := NewHandler(svc, gate)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(
				requestcontext.WithIdentityID(req.Context(), "guest-1")))
		})
	})
	h.Register(r)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/usage/ai/increment", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/usage/ai/increment", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, NextUTCMidnight(noon).Format(time.RFC3339), details["resetTime"])
}

func TestUsageHandler_MissingIdentityUnauthorized(t *testing.T) {
	r := newUsageRouter(t, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usage/ai", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsageHandler_AdminReset(t *testing.T) {
	r := newUsageRouter(t, "guest-1")

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/usage/ai/increment", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/usage/guest-1/reset",
		strings.NewReader(`{"day":"2026-03-01"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usage/ai", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result CheckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.CurrentUsage)
}
