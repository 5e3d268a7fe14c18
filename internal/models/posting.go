package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string
type AccountSource string
type AmountSource string
type DynamicSource string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"

	AccountSourceFixed   AccountSource = "fixed"
	AccountSourceDynamic AccountSource = "dynamic"

	AmountSourceFull      AmountSource = "full"
	AmountSourceTaxBase   AmountSource = "tax_base"
	AmountSourceTaxAmount AmountSource = "tax_amount"
	AmountSourceNet       AmountSource = "net"
	AmountSourceGross     AmountSource = "gross"
)

const (
	DynamicSourceBankAccount         DynamicSource = "BANK_ACCOUNT"
	DynamicSourcePartnerReceivable   DynamicSource = "PARTNER_RECEIVABLE"
	DynamicSourcePartnerPayable      DynamicSource = "PARTNER_PAYABLE"
	DynamicSourceEmployeeNet         DynamicSource = "EMPLOYEE_NET"
	DynamicSourceTaxPayable          DynamicSource = "TAX_PAYABLE"
	DynamicSourceContributionPayable DynamicSource = "CONTRIBUTION_PAYABLE"
	DynamicSourceAdvanceReceived     DynamicSource = "ADVANCE_RECEIVED"
	DynamicSourceAdvancePaid         DynamicSource = "ADVANCE_PAID"
	DynamicSourceClearing            DynamicSource = "CLEARING"
)

// DefaultTaxRate is the VAT rate applied when the caller supplies none.
var DefaultTaxRate = decimal.NewFromFloat(0.20)

// PostingRuleLine is one debit-or-credit leg of a posting rule template.
// Exactly one of AccountID / DynamicSource is meaningful, selected by AccountSource.
type PostingRuleLine struct {
	ID                  string          `json:"id" db:"id"`
	RuleID              string          `json:"rule_id" db:"rule_id"`
	LineNumber          int             `json:"line_number" db:"line_number"`
	Side                EntryType       `json:"side" db:"side"`
	AccountSource       AccountSource   `json:"account_source" db:"account_source"`
	AccountID           string          `json:"account_id,omitempty" db:"account_id"`
	DynamicSource       DynamicSource   `json:"dynamic_source,omitempty" db:"dynamic_source"`
	AmountSource        AmountSource    `json:"amount_source" db:"amount_source"`
	AmountFactor        decimal.Decimal `json:"amount_factor" db:"amount_factor"`
	DescriptionTemplate string          `json:"description_template" db:"description_template"`
	IsTaxLine           bool            `json:"is_tax_line" db:"is_tax_line"`
}

// PostingRule is a named rule with its ordered line templates. Fetched fresh
// per resolution request and never mutated by the engine.
type PostingRule struct {
	ID            string            `json:"id" db:"id"`
	TenantID      string            `json:"tenant_id" db:"tenant_id"`
	ModelCode     string            `json:"model_code" db:"model_code"`
	Name          string            `json:"name" db:"name"`
	Description   string            `json:"description" db:"description"`
	BankAccountID string            `json:"bank_account_id,omitempty" db:"bank_account_id"`
	Currency      string            `json:"currency,omitempty" db:"currency"`
	PartnerType   string            `json:"partner_type,omitempty" db:"partner_type"`
	IsActive      bool              `json:"is_active" db:"is_active"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	Lines         []PostingRuleLine `json:"lines,omitempty"`
}

// DynamicContext carries the caller-supplied account codes that dynamic lines
// resolve against, plus the optional tax rate. Built fresh per resolution call.
type DynamicContext struct {
	BankAccountGLCode        string           `json:"bankAccountGlCode,omitempty"`
	PartnerReceivableCode    string           `json:"partnerReceivableCode,omitempty"`
	PartnerPayableCode       string           `json:"partnerPayableCode,omitempty"`
	EmployeeNetCode          string           `json:"employeeNetCode,omitempty"`
	TaxPayableCode           string           `json:"taxPayableCode,omitempty"`
	ContributionPayableCode  string           `json:"contributionPayableCode,omitempty"`
	AdvanceReceivedCode      string           `json:"advanceReceivedCode,omitempty"`
	AdvancePaidCode          string           `json:"advancePaidCode,omitempty"`
	ClearingCode             string           `json:"clearingCode,omitempty"`
	TaxRate                  *decimal.Decimal `json:"taxRate,omitempty"`
}

// EffectiveTaxRate returns the caller's tax rate or the 0.20 default.
func (c *DynamicContext) EffectiveTaxRate() decimal.Decimal {
	if c != nil && c.TaxRate != nil {
		return *c.TaxRate
	}
	return DefaultTaxRate
}

// ResolvedLine is one concrete ledger posting produced by the resolver.
// Exactly one of Debit/Credit is nonzero for a nonzero resolved amount.
type ResolvedLine struct {
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	SortOrder   int             `json:"sort_order"`
}

// SimulatedLine is the display-only output of the simulator. Source is a
// fabricated account label, never a real account code.
type SimulatedLine struct {
	Side        EntryType       `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
}

// PreviewLine is the shape shared by the hard-coded GL preview builders.
type PreviewLine struct {
	AccountCode string          `json:"account_code"`
	Side        EntryType       `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Account is a chart-of-accounts row as seen by this service.
type Account struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`
}

// JournalEntry is a persisted journal entry produced from resolved lines.
type JournalEntry struct {
	ID          string         `json:"id" db:"id"`
	TenantID    string         `json:"tenant_id" db:"tenant_id"`
	RuleID      string         `json:"rule_id,omitempty" db:"rule_id"`
	ModelCode   string         `json:"model_code" db:"model_code"`
	Description string         `json:"description" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	Lines       []JournalLine  `json:"lines,omitempty"`
}

// JournalLine is one persisted leg of a journal entry.
type JournalLine struct {
	ID          string          `json:"id" db:"id"`
	EntryID     string          `json:"entry_id" db:"entry_id"`
	AccountCode string          `json:"account_code" db:"account_code"`
	Debit       decimal.Decimal `json:"debit" db:"debit"`
	Credit      decimal.Decimal `json:"credit" db:"credit"`
	Description string          `json:"description" db:"description"`
	SortOrder   int             `json:"sort_order" db:"sort_order"`
}

// RuleLookupOptions narrow which stored rule variant is selected.
type RuleLookupOptions struct {
	BankAccountID string `json:"bank_account_id,omitempty" form:"bank_account_id"`
	Currency      string `json:"currency,omitempty" form:"currency"`
	PartnerType   string `json:"partner_type,omitempty" form:"partner_type"`
}

// ResolveRequest asks the service to resolve a model code into ledger postings.
type ResolveRequest struct {
	TenantID      string            `json:"tenant_id" binding:"required"`
	ModelCode     string            `json:"model_code" binding:"required"`
	Amount        decimal.Decimal   `json:"amount" binding:"required"`
	BankAccountID string            `json:"bank_account_id,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	PartnerType   string            `json:"partner_type,omitempty"`
	Context       DynamicContext    `json:"context"`
}

// SimulateRequest previews raw line templates against a test amount.
type SimulateRequest struct {
	Lines      []PostingRuleLine `json:"lines" binding:"required,min=1"`
	TestAmount decimal.Decimal   `json:"test_amount" binding:"required"`
	TaxRate    *decimal.Decimal  `json:"tax_rate,omitempty"`
}

// PostRequest resolves a model code and persists the result as a journal entry.
type PostRequest struct {
	ResolveRequest
	Description string `json:"description"`
}

// Database schema
const PostingSchema = `
CREATE TABLE IF NOT EXISTS posting_rules (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    model_code VARCHAR(50) NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    bank_account_id VARCHAR(36),
    currency VARCHAR(3),
    partner_type VARCHAR(20),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posting_rules_tenant_model ON posting_rules (tenant_id, model_code);

CREATE TABLE IF NOT EXISTS posting_rule_lines (
    id VARCHAR(36) PRIMARY KEY,
    rule_id VARCHAR(36) NOT NULL REFERENCES posting_rules(id),
    line_number INT NOT NULL,
    side VARCHAR(10) NOT NULL,
    account_source VARCHAR(10) NOT NULL,
    account_id VARCHAR(36),
    dynamic_source VARCHAR(30),
    amount_source VARCHAR(20) NOT NULL,
    amount_factor DECIMAL(19, 6) NOT NULL DEFAULT 1,
    description_template TEXT NOT NULL DEFAULT '',
    is_tax_line BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_posting_rule_lines_rule ON posting_rule_lines (rule_id);

CREATE TABLE IF NOT EXISTS accounts (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    code VARCHAR(20) NOT NULL,
    name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_accounts_tenant_code ON accounts (tenant_id, code);

CREATE TABLE IF NOT EXISTS journal_entries (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    rule_id VARCHAR(36),
    model_code VARCHAR(50) NOT NULL,
    description TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_journal_entries_tenant ON journal_entries (tenant_id, created_at);

CREATE TABLE IF NOT EXISTS journal_lines (
    id VARCHAR(36) PRIMARY KEY,
    entry_id VARCHAR(36) NOT NULL REFERENCES journal_entries(id),
    account_code VARCHAR(20) NOT NULL,
    debit DECIMAL(19, 2) NOT NULL DEFAULT 0,
    credit DECIMAL(19, 2) NOT NULL DEFAULT 0,
    description TEXT,
    sort_order INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_lines_entry ON journal_lines (entry_id);
`
