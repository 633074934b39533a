package fees

// FeeBreakdown is the full split of one ticket order. Amounts are GBP,
// rounded to two decimal places. Never persisted; recomputed at settlement
// from the pricing in force at that moment.
type FeeBreakdown struct {
	BasePriceGBP         float64 `json:"basePriceGBP"`
	Quantity             int     `json:"quantity"`
	GrossGBP             float64 `json:"grossGBP"`
	PlatformFeeGBP       float64 `json:"platformFeeGBP"`
	ProcessingFeeGBP     float64 `json:"processingFeeGBP"`
	GuestTotalGBP        float64 `json:"guestTotalGBP"`
	ExternalProcessorGBP float64 `json:"externalProcessorGBP"`
	OrganiserNetGBP      float64 `json:"organiserNetGBP"`
}

// QuoteRequest is the inbound body for a ticket quote.
type QuoteRequest struct {
	BasePriceGBP float64 `json:"basePriceGBP"`
	Quantity     int     `json:"quantity"`
}
