package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

// Rule matching precedence lives here, not in the engine: a variant whose
// disambiguators match exactly beats one that leaves them NULL, and the most
// specific match wins. The engine only sees the RuleFinder interface.
const queryFindPostingRule = `
	SELECT id, tenant_id, model_code, name, description, bank_account_id, currency, partner_type, is_active, created_at
	FROM posting_rules
	WHERE tenant_id = $1 AND model_code = $2 AND is_active = TRUE
	  AND (bank_account_id = $3 OR bank_account_id IS NULL)
	  AND (currency = $4 OR currency IS NULL)
	  AND (partner_type = $5 OR partner_type IS NULL)
	ORDER BY (bank_account_id IS NOT NULL)::int + (currency IS NOT NULL)::int + (partner_type IS NOT NULL)::int DESC,
	         created_at ASC
	LIMIT 1
`

const queryGetPostingRule = `
	SELECT id, tenant_id, model_code, name, description, bank_account_id, currency, partner_type, is_active, created_at
	FROM posting_rules
	WHERE id = $1
`

const queryListPostingRules = `
	SELECT id, tenant_id, model_code, name, description, bank_account_id, currency, partner_type, is_active, created_at
	FROM posting_rules
	WHERE tenant_id = $1 AND ($2 = '' OR model_code = $2)
	ORDER BY model_code, created_at
`

const queryGetPostingRuleLines = `
	SELECT id, rule_id, line_number, side, account_source, account_id, dynamic_source, amount_source, amount_factor, description_template, is_tax_line
	FROM posting_rule_lines
	WHERE rule_id = $1
	ORDER BY line_number ASC, id ASC
`

type RuleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// FindPostingRule returns the stored rule variant matching the model code and
// disambiguators, with its ordered lines, or nil when none is configured.
func (r *RuleRepository) FindPostingRule(ctx context.Context, tenantID, modelCode string, opts models.RuleLookupOptions) (*models.PostingRule, error) {
	row := r.db.QueryRowContext(ctx, queryFindPostingRule,
		tenantID,
		modelCode,
		opts.BankAccountID,
		opts.Currency,
		opts.PartnerType,
	)

	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find posting rule: %w", err)
	}

	rule.Lines, err = r.getRuleLines(ctx, rule.ID)
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// GetRule returns one rule by id with its lines, or nil when it does not exist.
func (r *RuleRepository) GetRule(ctx context.Context, ruleID string) (*models.PostingRule, error) {
	row := r.db.QueryRowContext(ctx, queryGetPostingRule, ruleID)

	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get posting rule: %w", err)
	}

	rule.Lines, err = r.getRuleLines(ctx, rule.ID)
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// ListRules returns a tenant's rules, optionally filtered by model code,
// without their lines.
func (r *RuleRepository) ListRules(ctx context.Context, tenantID, modelCode string) ([]*models.PostingRule, error) {
	rows, err := r.db.QueryContext(ctx, queryListPostingRules, tenantID, modelCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list posting rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.PostingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *RuleRepository) getRuleLines(ctx context.Context, ruleID string) ([]models.PostingRuleLine, error) {
	rows, err := r.db.QueryContext(ctx, queryGetPostingRuleLines, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting rule lines: %w", err)
	}
	defer rows.Close()

	var lines []models.PostingRuleLine
	for rows.Next() {
		var line models.PostingRuleLine
		var accountID, dynamicSource sql.NullString
		var factor string

		err := rows.Scan(
			&line.ID,
			&line.RuleID,
			&line.LineNumber,
			&line.Side,
			&line.AccountSource,
			&accountID,
			&dynamicSource,
			&line.AmountSource,
			&factor,
			&line.DescriptionTemplate,
			&line.IsTaxLine,
		)
		if err != nil {
			return nil, err
		}

		line.AccountID = accountID.String
		line.DynamicSource = models.DynamicSource(dynamicSource.String)
		line.AmountFactor, err = decimal.NewFromString(factor)
		if err != nil {
			return nil, fmt.Errorf("invalid amount factor %q: %w", factor, err)
		}

		lines = append(lines, line)
	}

	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*models.PostingRule, error) {
	rule := &models.PostingRule{}
	var description, bankAccountID, currency, partnerType sql.NullString

	err := row.Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.ModelCode,
		&rule.Name,
		&description,
		&bankAccountID,
		&currency,
		&partnerType,
		&rule.IsActive,
		&rule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Description = description.String
	rule.BankAccountID = bankAccountID.String
	rule.Currency = currency.String
	rule.PartnerType = partnerType.String

	return rule, nil
}
