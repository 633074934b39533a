package configstore

import (
	"math"

	dErrors "gatehouse/pkg/domain-errors"
)

// Document names the four configuration documents. These are also the
// document IDs in the backing store.
type Document string

const (
	DocFeatures   Document = "features"
	DocPricing    Document = "pricing"
	DocLimits     Document = "limits"
	DocAdminFlags Document = "adminFlags"
)

// Features maps each platform capability to an on/off flag. The key set is
// fixed and exhaustive: a document missing any capability is invalid, there
// are no implicit defaults on read.
type Features struct {
	Ticketing      bool `json:"ticketing"`
	Map            bool `json:"map"`
	AI             bool `json:"ai"`
	DoorScan       bool `json:"doorScan"`
	Court          bool `json:"court"`
	RefundsEnabled bool `json:"refundsEnabled"`
	NewSignups     bool `json:"newSignups"`
}

// FeatureNames returns the fixed capability set, in a stable order.
func FeatureNames() []string {
	return []string{"ticketing", "map", "ai", "doorScan", "court", "refundsEnabled", "newSignups"}
}

// Enabled looks up a capability by name. The second return reports whether
// the name is a known capability at all.
func (f Features) Enabled(name string) (bool, bool) {
	switch name {
	case "ticketing":
		return f.Ticketing, true
	case "map":
		return f.Map, true
	case "ai":
		return f.AI, true
	case "doorScan":
		return f.DoorScan, true
	case "court":
		return f.Court, true
	case "refundsEnabled":
		return f.RefundsEnabled, true
	case "newSignups":
		return f.NewSignups, true
	}
	return false, false
}

// ParseFeatures builds a Features document from a raw capability map,
// requiring the key set to match the fixed capability set exactly. Missing
// or unknown keys reject the whole document; nothing is coerced.
func ParseFeatures(raw map[string]bool) (Features, error) {
	var f Features
	for _, name := range FeatureNames() {
		v, ok := raw[name]
		if !ok {
			return Features{}, invalidConfigValue(name, "missing required feature flag")
		}
		switch name {
		case "ticketing":
			f.Ticketing = v
		case "map":
			f.Map = v
		case "ai":
			f.AI = v
		case "doorScan":
			f.DoorScan = v
		case "court":
			f.Court = v
		case "refundsEnabled":
			f.RefundsEnabled = v
		case "newSignups":
			f.NewSignups = v
		}
	}
	if len(raw) != len(FeatureNames()) {
		for key := range raw {
			if _, known := (Features{}).Enabled(key); !known {
				return Features{}, invalidConfigValue(key, "unknown feature flag")
			}
		}
	}
	return f, nil
}

// AdminFlags is the global kill-switch document. When GlobalReadOnly is set,
// every feature check denies regardless of individual flags.
type AdminFlags struct {
	GlobalReadOnly bool `json:"globalReadOnly"`
}

// Pricing holds the platform's monetary configuration. All values are GBP
// with two-decimal precision; bounds are validated before every write, never
// merely on read.
type Pricing struct {
	PlatformFeePct               float64 `json:"platformFeePct"`
	ProcessingFeeGBP             float64 `json:"processingFeeGBP"`
	GuestMembershipGBPPerYear    float64 `json:"guestMembershipGBPPerYear"`
	VenueSubscriptionGBPPerMonth float64 `json:"venueSubscriptionGBPPerMonth"`
	CourtCaseGBP                 float64 `json:"courtCaseGBP"`
}

// Validate checks every pricing field against its declared bounds.
// Out-of-range values are rejected with the field and reason, never clamped.
func (p Pricing) Validate() error {
	checks := []struct {
		field string
		value float64
		min   float64
		max   float64
	}{
		{"platformFeePct", p.PlatformFeePct, 0, 50},
		{"processingFeeGBP", p.ProcessingFeeGBP, 0, 10},
		{"guestMembershipGBPPerYear", p.GuestMembershipGBPPerYear, 0, 100},
		{"venueSubscriptionGBPPerMonth", p.VenueSubscriptionGBPPerMonth, 0, 500},
		{"courtCaseGBP", p.CourtCaseGBP, 0, 50},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return invalidConfigValue(c.field, "out of range")
		}
		if !isTwoDecimal(c.value) {
			return invalidConfigValue(c.field, "more than two decimal places")
		}
	}
	return nil
}

// Limits holds per-identity usage caps.
type Limits struct {
	AIGuestDailyMessages int `json:"aiGuestDailyMessages"`
}

// Validate checks the daily message cap against its declared bounds.
func (l Limits) Validate() error {
	if l.AIGuestDailyMessages < 1 || l.AIGuestDailyMessages > 1000 {
		return invalidConfigValue("aiGuestDailyMessages", "must be between 1 and 1000")
	}
	return nil
}

// DefaultFeatures is the document seeded on first boot.
func DefaultFeatures() Features {
	return Features{
		Ticketing:      true,
		Map:            true,
		AI:             true,
		DoorScan:       true,
		Court:          true,
		RefundsEnabled: true,
		NewSignups:     true,
	}
}

// DefaultPricing is the document seeded on first boot.
func DefaultPricing() Pricing {
	return Pricing{
		PlatformFeePct:               8,
		ProcessingFeeGBP:             1.00,
		GuestMembershipGBPPerYear:    25,
		VenueSubscriptionGBPPerMonth: 49,
		CourtCaseGBP:                 15,
	}
}

// DefaultLimits is the document seeded on first boot.
func DefaultLimits() Limits {
	return Limits{AIGuestDailyMessages: 20}
}

// DefaultAdminFlags is the document seeded on first boot.
func DefaultAdminFlags() AdminFlags {
	return AdminFlags{GlobalReadOnly: false}
}

func invalidConfigValue(field, reason string) error {
	return dErrors.Newf(dErrors.CodeInvalidInput, "invalid config value for %s: %s", field, reason).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// isTwoDecimal reports whether v is representable with two decimal places.
func isTwoDecimal(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
