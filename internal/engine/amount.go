package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

var one = decimal.NewFromInt(1)

// computeLineAmount derives a line amount from the transaction amount: it
// applies the apportionment formula for the line's amount source, multiplies
// by the factor (0 means 1) and rounds to 2 decimal places. Rounding is
// half away from zero.
func computeLineAmount(amount, rate decimal.Decimal, source models.AmountSource, factor decimal.Decimal) (decimal.Decimal, error) {
	var base decimal.Decimal

	switch source {
	case models.AmountSourceFull, models.AmountSourceGross:
		base = amount
	case models.AmountSourceTaxAmount:
		base = amount.Mul(rate)
	case models.AmountSourceTaxBase:
		divisor := one.Add(rate)
		if divisor.IsZero() {
			// A rate of -1 leaves no gross to divide by.
			return decimal.Zero, fmt.Errorf("%w: tax rate %s has a zero gross divisor", ErrInvalidRuleLine, rate)
		}
		base = amount.Div(divisor)
	case models.AmountSourceNet:
		base = amount.Mul(one.Sub(rate))
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown amount source %q", ErrInvalidRuleLine, source)
	}

	if factor.IsZero() {
		factor = one
	}

	return base.Mul(factor).Round(2), nil
}
