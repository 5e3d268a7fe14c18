package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLineAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		source models.AmountSource
		factor string
		want   string
	}{
		{
			name:   "full passes amount through",
			amount: "1000",
			rate:   "0.20",
			source: models.AmountSourceFull,
			factor: "1",
			want:   "1000",
		},
		{
			name:   "gross passes amount through",
			amount: "1234.56",
			rate:   "0.20",
			source: models.AmountSourceGross,
			factor: "1",
			want:   "1234.56",
		},
		{
			name:   "tax amount applies rate",
			amount: "1200",
			rate:   "0.20",
			source: models.AmountSourceTaxAmount,
			factor: "1",
			want:   "240",
		},
		{
			name:   "tax base strips tax from gross",
			amount: "1200",
			rate:   "0.20",
			source: models.AmountSourceTaxBase,
			factor: "1",
			want:   "1000",
		},
		{
			name:   "net subtracts rate share",
			amount: "1000",
			rate:   "0.20",
			source: models.AmountSourceNet,
			factor: "1",
			want:   "800",
		},
		{
			name:   "zero factor defaults to one",
			amount: "500",
			rate:   "0.20",
			source: models.AmountSourceFull,
			factor: "0",
			want:   "500",
		},
		{
			name:   "factor scales after apportionment",
			amount: "1200",
			rate:   "0.20",
			source: models.AmountSourceTaxBase,
			factor: "0.5",
			want:   "500",
		},
		{
			name:   "result is rounded to two decimals",
			amount: "100",
			rate:   "0.10",
			source: models.AmountSourceTaxBase,
			factor: "1",
			want:   "90.91",
		},
		{
			name:   "ten percent rate tax amount",
			amount: "1100",
			rate:   "0.10",
			source: models.AmountSourceTaxAmount,
			factor: "1",
			want:   "110",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := computeLineAmount(dec(tt.amount), dec(tt.rate), tt.source, dec(tt.factor))
			if err != nil {
				t.Fatalf("computeLineAmount() error = %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("computeLineAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeLineAmountUnknownSource(t *testing.T) {
	_, err := computeLineAmount(dec("100"), dec("0.20"), models.AmountSource("percentage"), dec("1"))
	if !errors.Is(err, ErrInvalidRuleLine) {
		t.Errorf("computeLineAmount() error = %v, want ErrInvalidRuleLine", err)
	}
}

// A rate of -1 makes the tax-base divisor zero; it must come back as an
// error, not a division panic.
func TestComputeLineAmountRejectsMinusOneRate(t *testing.T) {
	_, err := computeLineAmount(dec("100"), dec("-1"), models.AmountSourceTaxBase, dec("1"))
	if !errors.Is(err, ErrInvalidRuleLine) {
		t.Errorf("computeLineAmount() error = %v, want ErrInvalidRuleLine", err)
	}
}

// Apportionment identities: tax base grossed back up by the rate recovers the
// amount, and tax base plus tax amount recovers it, within 1 cent.
func TestApportionmentIdentities(t *testing.T) {
	tolerance := dec("0.01")
	amounts := []string{"1200", "999.99", "0.01", "123456.78", "1"}
	rates := []string{"0", "0.10", "0.20", "0.08", "0.999"}

	for _, a := range amounts {
		for _, r := range rates {
			amount := dec(a)
			rate := dec(r)

			base, err := computeLineAmount(amount, rate, models.AmountSourceTaxBase, dec("1"))
			if err != nil {
				t.Fatalf("tax base failed: %v", err)
			}

			grossedUp := base.Mul(dec("1").Add(rate))
			if grossedUp.Sub(amount).Abs().GreaterThan(tolerance) {
				t.Errorf("amount=%s rate=%s: base*(1+rate) = %s, want ~%s", a, r, grossedUp, a)
			}

			// The tax share of the base recombines with it to the original
			// amount. The TAX_AMOUNT line itself is rate times the gross, so
			// it only matches this share when the input amount is net.
			baseTax := base.Mul(rate).Round(2)
			if base.Add(baseTax).Sub(amount).Abs().GreaterThan(dec("0.02")) {
				t.Errorf("amount=%s rate=%s: base + base*rate = %s, want ~%s", a, r, base.Add(baseTax), a)
			}
		}
	}
}

// Factor scaling: a line with factor f yields exactly f times the factor-1
// amount before rounding differences; check with factors that keep 2dp exact.
func TestFactorScaling(t *testing.T) {
	sources := []models.AmountSource{
		models.AmountSourceFull,
		models.AmountSourceGross,
		models.AmountSourceTaxAmount,
		models.AmountSourceTaxBase,
		models.AmountSourceNet,
	}

	amount := dec("1200")
	rate := dec("0.20")
	factor := dec("2")

	for _, source := range sources {
		unit, err := computeLineAmount(amount, rate, source, dec("1"))
		if err != nil {
			t.Fatalf("%s: %v", source, err)
		}
		scaled, err := computeLineAmount(amount, rate, source, factor)
		if err != nil {
			t.Fatalf("%s: %v", source, err)
		}

		if !scaled.Equal(unit.Mul(factor)) {
			t.Errorf("%s: factor %s gave %s, want %s", source, factor, scaled, unit.Mul(factor))
		}
	}
}
