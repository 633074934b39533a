package configstore

// Patch types model administrative update payloads. Every field is a pointer
// so a missing field is distinguishable from a zero value: updates must carry
// the whole document, and an incomplete payload rejects the whole write.

// PricingPatch is the inbound pricing document.
type PricingPatch struct {
	PlatformFeePct               *float64 `json:"platformFeePct"`
	ProcessingFeeGBP             *float64 `json:"processingFeeGBP"`
	GuestMembershipGBPPerYear    *float64 `json:"guestMembershipGBPPerYear"`
	VenueSubscriptionGBPPerMonth *float64 `json:"venueSubscriptionGBPPerMonth"`
	CourtCaseGBP                 *float64 `json:"courtCaseGBP"`
}

// Resolve validates completeness and bounds, returning the typed document.
func (p PricingPatch) Resolve() (Pricing, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"platformFeePct", p.PlatformFeePct},
		{"processingFeeGBP", p.ProcessingFeeGBP},
		{"guestMembershipGBPPerYear", p.GuestMembershipGBPPerYear},
		{"venueSubscriptionGBPPerMonth", p.VenueSubscriptionGBPPerMonth},
		{"courtCaseGBP", p.CourtCaseGBP},
	}
	for _, f := range fields {
		if f.value == nil {
			return Pricing{}, invalidConfigValue(f.name, "missing required field")
		}
	}
	pricing := Pricing{
		PlatformFeePct:               *p.PlatformFeePct,
		ProcessingFeeGBP:             *p.ProcessingFeeGBP,
		GuestMembershipGBPPerYear:    *p.GuestMembershipGBPPerYear,
		VenueSubscriptionGBPPerMonth: *p.VenueSubscriptionGBPPerMonth,
		CourtCaseGBP:                 *p.CourtCaseGBP,
	}
	if err := pricing.Validate(); err != nil {
		return Pricing{}, err
	}
	return pricing, nil
}

// LimitsPatch is the inbound limits document.
type LimitsPatch struct {
	AIGuestDailyMessages *int `json:"aiGuestDailyMessages"`
}

// Resolve validates completeness and bounds, returning the typed document.
func (l LimitsPatch) Resolve() (Limits, error) {
	if l.AIGuestDailyMessages == nil {
		return Limits{}, invalidConfigValue("aiGuestDailyMessages", "missing required field")
	}
	limits := Limits{AIGuestDailyMessages: *l.AIGuestDailyMessages}
	if err := limits.Validate(); err != nil {
		return Limits{}, err
	}
	return limits, nil
}

// AdminFlagsPatch is the inbound admin flags document.
type AdminFlagsPatch struct {
	GlobalReadOnly *bool `json:"globalReadOnly"`
}

// Resolve validates completeness, returning the typed document.
func (a AdminFlagsPatch) Resolve() (AdminFlags, error) {
	if a.GlobalReadOnly == nil {
		return AdminFlags{}, invalidConfigValue("globalReadOnly", "missing required field")
	}
	return AdminFlags{GlobalReadOnly: *a.GlobalReadOnly}, nil
}
