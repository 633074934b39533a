package configstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/audit"
)

// recordingInvalidator records invalidations so tests can assert they happen
// synchronously, before the update call returns.
type recordingInvalidator struct {
	mu   sync.Mutex
	docs []Document
}

func (r *recordingInvalidator) Invalidate(doc Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
}

func (r *recordingInvalidator) invalidated() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Document(nil), r.docs...)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *recordingInvalidator, *audit.MemoryPublisher) {
	t.Helper()
	inv := &recordingInvalidator{}
	published := audit.NewMemoryPublisher()
	opts = append(opts, WithInvalidator(inv), WithAuditPublisher(published))
	svc, err := New(NewInMemoryStore(), opts...)
	require.NoError(t, err)
	return svc, inv, published
}

func TestUpdatePricing_WritesAndInvalidates(t *testing.T) {
	svc, inv, published := newTestService(t)
	ctx := context.Background()

	pct := 10.0
	proc := 0.75
	membership := 30.0
	subscription := 55.0
	court := 20.0
	updated, err := svc.UpdatePricing(ctx, PricingPatch{
		PlatformFeePct:               &pct,
		ProcessingFeeGBP:             &proc,
		GuestMembershipGBPPerYear:    &membership,
		VenueSubscriptionGBPPerMonth: &subscription,
		CourtCaseGBP:                 &court,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.PlatformFeePct)

	// Invalidation happened before UpdatePricing returned.
	assert.Equal(t, []Document{DocPricing}, inv.invalidated())

	got, err := svc.Pricing(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	events := published.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "config_pricing_updated", events[0].Action)
}

func TestUpdatePricing_IncompleteDocumentRejected(t *testing.T) {
	svc, inv, _ := newTestService(t)
	ctx := context.Background()

	pct := 10.0
	_, err := svc.UpdatePricing(ctx, PricingPatch{PlatformFeePct: &pct})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	// Nothing written, nothing invalidated.
	assert.Empty(t, inv.invalidated())
	got, err := svc.Pricing(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPricing(), got)
}

func TestUpdateFeatures_IncompleteMapRejected(t *testing.T) {
	svc, inv, _ := newTestService(t)

	_, err := svc.UpdateFeatures(context.Background(), map[string]bool{"ticketing": true})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Empty(t, inv.invalidated())
}

func TestUpdateAdminFlags_KillSwitchRoundTrip(t *testing.T) {
	svc, inv, _ := newTestService(t)
	ctx := context.Background()

	on := true
	_, err := svc.UpdateAdminFlags(ctx, AdminFlagsPatch{GlobalReadOnly: &on})
	require.NoError(t, err)
	assert.Equal(t, []Document{DocAdminFlags}, inv.invalidated())

	flags, err := svc.AdminFlags(ctx)
	require.NoError(t, err)
	assert.True(t, flags.GlobalReadOnly)
}

// failingStore simulates a storage outage for every operation.
type failingStore struct{ err error }

func (f *failingStore) GetFeatures(context.Context) (Features, error) { return Features{}, f.err }
func (f *failingStore) PutFeatures(context.Context, Features) error   { return f.err }
func (f *failingStore) GetPricing(context.Context) (Pricing, error)   { return Pricing{}, f.err }
func (f *failingStore) PutPricing(context.Context, Pricing) error     { return f.err }
func (f *failingStore) GetLimits(context.Context) (Limits, error)     { return Limits{}, f.err }
func (f *failingStore) PutLimits(context.Context, Limits) error       { return f.err }
func (f *failingStore) GetAdminFlags(context.Context) (AdminFlags, error) {
	return AdminFlags{}, f.err
}
func (f *failingStore) PutAdminFlags(context.Context, AdminFlags) error { return f.err }

func TestReads_StoreOutageClassifiedUnavailable(t *testing.T) {
	svc, err := New(&failingStore{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = svc.Features(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
