package engine

import (
	"github.com/shopspring/decimal"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

// The preview builders hard-code the debit/credit pattern for a handful of
// common business events. They bypass the rule engine entirely; the caller is
// responsible for passing amounts already attributed to the correct side.

// BuildSupplierInvoicePreviewLines previews a supplier invoice approval:
// debit expense, optionally debit input VAT, credit payables for the gross.
func BuildSupplierInvoicePreviewLines(netAmount, vatAmount decimal.Decimal, expenseAccount, inputVATAccount, payableAccount string) []models.PreviewLine {
	lines := []models.PreviewLine{
		{
			AccountCode: expenseAccount,
			Side:        models.EntryTypeDebit,
			Amount:      netAmount,
			Description: "Supplier invoice - expense",
		},
	}

	if vatAmount.IsPositive() && inputVATAccount != "" {
		lines = append(lines, models.PreviewLine{
			AccountCode: inputVATAccount,
			Side:        models.EntryTypeDebit,
			Amount:      vatAmount,
			Description: "Supplier invoice - input VAT",
		})
	}

	lines = append(lines, models.PreviewLine{
		AccountCode: payableAccount,
		Side:        models.EntryTypeCredit,
		Amount:      netAmount.Add(vatAmount),
		Description: "Supplier invoice - payables",
	})

	return lines
}

// BuildSupplierPaymentPreviewLines previews settling a supplier invoice:
// debit payables, credit the bank account.
func BuildSupplierPaymentPreviewLines(amount decimal.Decimal, payableAccount, bankAccount string) []models.PreviewLine {
	return []models.PreviewLine{
		{
			AccountCode: payableAccount,
			Side:        models.EntryTypeDebit,
			Amount:      amount,
			Description: "Supplier payment - payables",
		},
		{
			AccountCode: bankAccount,
			Side:        models.EntryTypeCredit,
			Amount:      amount,
			Description: "Supplier payment - bank",
		},
	}
}

// BuildCashPreviewLines previews a cash sale: debit cash for the gross,
// credit revenue for the net, optionally credit output VAT.
func BuildCashPreviewLines(grossAmount, vatAmount decimal.Decimal, cashAccount, revenueAccount, outputVATAccount string) []models.PreviewLine {
	lines := []models.PreviewLine{
		{
			AccountCode: cashAccount,
			Side:        models.EntryTypeDebit,
			Amount:      grossAmount,
			Description: "Cash receipt",
		},
		{
			AccountCode: revenueAccount,
			Side:        models.EntryTypeCredit,
			Amount:      grossAmount.Sub(vatAmount),
			Description: "Cash sale - revenue",
		},
	}

	if vatAmount.IsPositive() && outputVATAccount != "" {
		lines = append(lines, models.PreviewLine{
			AccountCode: outputVATAccount,
			Side:        models.EntryTypeCredit,
			Amount:      vatAmount,
			Description: "Cash sale - output VAT",
		})
	}

	return lines
}

// BuildDeferralPreviewLines previews moving a cost into a deferral account:
// debit the deferral, credit the source expense.
func BuildDeferralPreviewLines(amount decimal.Decimal, deferralAccount, sourceAccount string) []models.PreviewLine {
	return []models.PreviewLine{
		{
			AccountCode: deferralAccount,
			Side:        models.EntryTypeDebit,
			Amount:      amount,
			Description: "Deferral - prepaid expense",
		},
		{
			AccountCode: sourceAccount,
			Side:        models.EntryTypeCredit,
			Amount:      amount,
			Description: "Deferral - source expense",
		},
	}
}
