package models

// ModelCodeLabels is the closed taxonomy of transaction-model codes supported
// by the posting engine, each mapped to its localization label key. It must be
// kept in sync with whatever populates the rule store. Never mutated at runtime.
var ModelCodeLabels = map[string]string{
	"CUSTOMER_INVOICE":      "postingModels.customerInvoice",
	"CUSTOMER_PAYMENT":      "postingModels.customerPayment",
	"CUSTOMER_ADVANCE":      "postingModels.customerAdvance",
	"SUPPLIER_INVOICE":      "postingModels.supplierInvoice",
	"SUPPLIER_PAYMENT":      "postingModels.supplierPayment",
	"SUPPLIER_ADVANCE":      "postingModels.supplierAdvance",
	"VAT_PAYMENT":           "postingModels.vatPayment",
	"VAT_REFUND":            "postingModels.vatRefund",
	"PAYROLL_NET":           "postingModels.payrollNet",
	"PAYROLL_TAX":           "postingModels.payrollTax",
	"PAYROLL_CONTRIBUTIONS": "postingModels.payrollContributions",
	"PAYROLL_ADVANCE":       "postingModels.payrollAdvance",
	"ASSET_ACQUISITION":     "postingModels.assetAcquisition",
	"ASSET_DEPRECIATION":    "postingModels.assetDepreciation",
	"ASSET_DISPOSAL":        "postingModels.assetDisposal",
	"POS_SALE_REVENUE":      "postingModels.posSaleRevenue",
	"POS_CASH_DEPOSIT":      "postingModels.posCashDeposit",
	"POS_CARD_SETTLEMENT":   "postingModels.posCardSettlement",
	"BANK_FEE":              "postingModels.bankFee",
	"BANK_INTEREST_INCOME":  "postingModels.bankInterestIncome",
	"BANK_INTEREST_EXPENSE": "postingModels.bankInterestExpense",
	"FX_GAIN":               "postingModels.fxGain",
	"FX_LOSS":               "postingModels.fxLoss",
	"LOAN_RECEIVED":         "postingModels.loanReceived",
	"LOAN_REPAYMENT":        "postingModels.loanRepayment",
	"LEASE_PAYMENT":         "postingModels.leasePayment",
	"INVENTORY_RECEIPT":     "postingModels.inventoryReceipt",
	"INVENTORY_ISSUE":       "postingModels.inventoryIssue",
	"INVENTORY_WRITE_OFF":   "postingModels.inventoryWriteOff",
	"CASH_RECEIPT":          "postingModels.cashReceipt",
	"CASH_DISBURSEMENT":     "postingModels.cashDisbursement",
	"INTERNAL_TRANSFER":     "postingModels.internalTransfer",
	"ACCRUAL_BOOKING":       "postingModels.accrualBooking",
	"DEFERRAL_BOOKING":      "postingModels.deferralBooking",
	"DIVIDEND_PAYMENT":      "postingModels.dividendPayment",
	"YEAR_END_CLOSING":      "postingModels.yearEndClosing",
}

// DynamicSourceFields maps each dynamic-source symbolic key to the accessor
// for its DynamicContext field. This is the single place the vocabulary and
// the context shape are tied together.
var DynamicSourceFields = map[DynamicSource]func(*DynamicContext) string{
	DynamicSourceBankAccount:         func(c *DynamicContext) string { return c.BankAccountGLCode },
	DynamicSourcePartnerReceivable:   func(c *DynamicContext) string { return c.PartnerReceivableCode },
	DynamicSourcePartnerPayable:      func(c *DynamicContext) string { return c.PartnerPayableCode },
	DynamicSourceEmployeeNet:         func(c *DynamicContext) string { return c.EmployeeNetCode },
	DynamicSourceTaxPayable:          func(c *DynamicContext) string { return c.TaxPayableCode },
	DynamicSourceContributionPayable: func(c *DynamicContext) string { return c.ContributionPayableCode },
	DynamicSourceAdvanceReceived:     func(c *DynamicContext) string { return c.AdvanceReceivedCode },
	DynamicSourceAdvancePaid:         func(c *DynamicContext) string { return c.AdvancePaidCode },
	DynamicSourceClearing:            func(c *DynamicContext) string { return c.ClearingCode },
}

// DynamicSources lists the vocabulary in a stable order for API consumers.
var DynamicSources = []DynamicSource{
	DynamicSourceBankAccount,
	DynamicSourcePartnerReceivable,
	DynamicSourcePartnerPayable,
	DynamicSourceEmployeeNet,
	DynamicSourceTaxPayable,
	DynamicSourceContributionPayable,
	DynamicSourceAdvanceReceived,
	DynamicSourceAdvancePaid,
	DynamicSourceClearing,
}
