package configstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatehouse/pkg/domain-errors"
)

func fullFeatureMap() map[string]bool {
	return map[string]bool{
		"ticketing":      true,
		"map":            true,
		"ai":             false,
		"doorScan":       true,
		"court":          false,
		"refundsEnabled": true,
		"newSignups":     true,
	}
}

func TestParseFeatures_Complete(t *testing.T) {
	f, err := ParseFeatures(fullFeatureMap())
	require.NoError(t, err)
	assert.True(t, f.Ticketing)
	assert.False(t, f.AI)
	assert.True(t, f.RefundsEnabled)
}

func TestParseFeatures_MissingKeyRejectsWholeDocument(t *testing.T) {
	raw := fullFeatureMap()
	delete(raw, "doorScan")

	_, err := ParseFeatures(raw)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Equal(t, "doorScan", dErrors.DetailsOf(err)["field"])
}

func TestParseFeatures_UnknownKeyRejectsWholeDocument(t *testing.T) {
	raw := fullFeatureMap()
	raw["teleport"] = true

	_, err := ParseFeatures(raw)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestPricingValidate_Bounds(t *testing.T) {
	base := DefaultPricing()
	require.NoError(t, base.Validate())

	over := base
	over.PlatformFeePct = 50.5
	err := over.Validate()
	require.Error(t, err)
	assert.Equal(t, "platformFeePct", dErrors.DetailsOf(err)["field"])

	negative := base
	negative.ProcessingFeeGBP = -0.01
	require.Error(t, negative.Validate())

	subscription := base
	subscription.VenueSubscriptionGBPPerMonth = 500.01
	require.Error(t, subscription.Validate())
}

func TestPricingValidate_TwoDecimalPrecision(t *testing.T) {
	p := DefaultPricing()
	p.ProcessingFeeGBP = 1.005
	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, "processingFeeGBP", dErrors.DetailsOf(err)["field"])

	p.ProcessingFeeGBP = 1.05
	require.NoError(t, p.Validate())
}

func TestLimitsValidate(t *testing.T) {
	require.NoError(t, Limits{AIGuestDailyMessages: 1}.Validate())
	require.NoError(t, Limits{AIGuestDailyMessages: 1000}.Validate())
	require.Error(t, Limits{AIGuestDailyMessages: 0}.Validate())
	require.Error(t, Limits{AIGuestDailyMessages: 1001}.Validate())
}

func TestFeaturesEnabled_UnknownName(t *testing.T) {
	_, known := DefaultFeatures().Enabled("teleport")
	assert.False(t, known)
}
