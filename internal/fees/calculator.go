package fees

import (
	"math"

	dErrors "gatehouse/pkg/domain-errors"
)

// Calculator computes ticket fee breakdowns. It is pure and stateless apart
// from the external processor's rate card, which is fixed at construction.
type Calculator struct {
	processorRatePct  float64
	processorFixedGBP float64
}

// NewCalculator builds a calculator with the external processor's rate card.
// The conventional card rate is 2.9% plus a 20p fixed fee per order.
func NewCalculator(processorRatePct, processorFixedGBP float64) *Calculator {
	return &Calculator{
		processorRatePct:  processorRatePct,
		processorFixedGBP: processorFixedGBP,
	}
}

// Round2 rounds a GBP amount to two decimal places, half away from zero.
// Applied after every arithmetic step so intermediate amounts are always
// representable sums of money, never carriers of sub-penny residue.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeFees splits one order into its fee components.
//
// The platform fee is charged per ticket and absorbed by the organiser; the
// guest sees only base price times quantity plus the flat processing fee.
// The external processor's cut comes off the gross before the organiser is
// paid, and the organiser's net is floored at zero so a cheap ticket with a
// fixed processor fee never produces a negative payout.
func (c *Calculator) ComputeFees(basePriceGBP float64, quantity int, platformFeePct, processingFeeGBP float64) (FeeBreakdown, error) {
	if basePriceGBP < 0 {
		return FeeBreakdown{}, invalidFeeInput("basePriceGBP", "must not be negative")
	}
	if quantity < 1 {
		return FeeBreakdown{}, invalidFeeInput("quantity", "must be at least 1")
	}
	if platformFeePct < 0 || platformFeePct > 100 {
		return FeeBreakdown{}, invalidFeeInput("platformFeePct", "must be between 0 and 100")
	}
	if processingFeeGBP < 0 {
		return FeeBreakdown{}, invalidFeeInput("processingFeeGBP", "must not be negative")
	}

	gross := Round2(basePriceGBP * float64(quantity))
	platformFee := Round2(basePriceGBP * platformFeePct / 100 * float64(quantity))
	processingFee := Round2(processingFeeGBP)
	guestTotal := Round2(gross + processingFee)
	externalProcessor := Round2(gross*c.processorRatePct/100 + c.processorFixedGBP)
	organiserNet := Round2(gross - platformFee - externalProcessor)
	if organiserNet < 0 {
		organiserNet = 0
	}

	return FeeBreakdown{
		BasePriceGBP:         basePriceGBP,
		Quantity:             quantity,
		GrossGBP:             gross,
		PlatformFeeGBP:       platformFee,
		ProcessingFeeGBP:     processingFee,
		GuestTotalGBP:        guestTotal,
		ExternalProcessorGBP: externalProcessor,
		OrganiserNetGBP:      organiserNet,
	}, nil
}

// GuestTotal returns only the amount the guest pays.
func (c *Calculator) GuestTotal(basePriceGBP float64, quantity int, processingFeeGBP float64) (float64, error) {
	b, err := c.ComputeFees(basePriceGBP, quantity, 0, processingFeeGBP)
	if err != nil {
		return 0, err
	}
	return b.GuestTotalGBP, nil
}

// OrganiserNet returns only the organiser's payout.
func (c *Calculator) OrganiserNet(basePriceGBP float64, quantity int, platformFeePct, processingFeeGBP float64) (float64, error) {
	b, err := c.ComputeFees(basePriceGBP, quantity, platformFeePct, processingFeeGBP)
	if err != nil {
		return 0, err
	}
	return b.OrganiserNetGBP, nil
}

func invalidFeeInput(field, reason string) error {
	return dErrors.Newf(dErrors.CodeInvalidInput, "invalid fee input %s: %s", field, reason).
		WithDetail("field", field).
		WithDetail("reason", reason)
}
