package engine

import (
	"github.com/shopspring/decimal"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

// Simulate previews a rule's postings without touching the account store or
// requiring a dynamic context. Account resolution is cosmetic: fixed lines get
// a truncated-id label, dynamic lines echo their symbolic key. It never fails,
// so a rule's shape can be previewed before any concrete context exists.
func Simulate(lines []models.PostingRuleLine, testAmount decimal.Decimal, taxRate *decimal.Decimal) []models.SimulatedLine {
	rate := models.DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}

	simulated := make([]models.SimulatedLine, 0, len(lines))
	for _, line := range lines {
		amount, err := computeLineAmount(testAmount, rate, line.AmountSource, line.AmountFactor)
		if err != nil {
			// Unknown amount sources preview as the full amount.
			amount = testAmount.Round(2)
		}

		simulated = append(simulated, models.SimulatedLine{
			Side:        line.Side,
			Amount:      amount,
			Source:      simulatedAccountLabel(line),
			Description: line.DescriptionTemplate,
		})
	}

	return simulated
}

func simulatedAccountLabel(line models.PostingRuleLine) string {
	if line.AccountSource == models.AccountSourceDynamic {
		if line.DynamicSource == "" {
			return "Dynamic: ?"
		}
		return "Dynamic: " + string(line.DynamicSource)
	}

	if line.AccountID == "" {
		return "Account ?"
	}
	if len(line.AccountID) > 8 {
		return "Account " + line.AccountID[:8]
	}
	return "Account " + line.AccountID
}
