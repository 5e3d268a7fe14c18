package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

// AccountStore looks up the ledger code for an account id. A miss must be
// reported as ErrAccountNotFound so the resolver can abort cleanly.
type AccountStore interface {
	GetAccountCode(ctx context.Context, tenantID, accountID string) (string, error)
}

// Resolver expands posting-rule line templates into concrete ledger postings.
// It holds no state between calls; concurrent resolutions are independent.
type Resolver struct {
	accounts AccountStore
	logger   *zap.Logger
}

func NewResolver(accounts AccountStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		accounts: accounts,
		logger:   logger,
	}
}

// Resolve turns line templates plus a transaction amount and tax rate into
// concrete postings. Every input line yields exactly one output line, in input
// order; any failure aborts the whole call with no partial result.
// accountsCache maps account id to code for fixed lines the caller already
// loaded; misses fall through to the account store, one fetch per miss.
func (r *Resolver) Resolve(ctx context.Context, tenantID string, lines []models.PostingRuleLine, amount decimal.Decimal, dynCtx *models.DynamicContext, accountsCache map[string]string) ([]models.ResolvedLine, error) {
	rate := dynCtx.EffectiveTaxRate()

	resolved := make([]models.ResolvedLine, 0, len(lines))
	for i, line := range lines {
		accountCode, err := r.resolveAccountCode(ctx, tenantID, line, dynCtx, accountsCache)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		lineAmount, err := computeLineAmount(amount, rate, line.AmountSource, line.AmountFactor)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		out := models.ResolvedLine{
			AccountCode: accountCode,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Description: line.DescriptionTemplate,
			SortOrder:   line.LineNumber,
		}

		switch line.Side {
		case models.EntryTypeDebit:
			out.Debit = lineAmount
		case models.EntryTypeCredit:
			out.Credit = lineAmount
		default:
			return nil, fmt.Errorf("line %d: %w: unknown side %q", i+1, ErrInvalidRuleLine, line.Side)
		}

		resolved = append(resolved, out)
	}

	r.logger.Debug("Resolved posting lines",
		zap.String("tenant_id", tenantID),
		zap.Int("line_count", len(resolved)))

	return resolved, nil
}

func (r *Resolver) resolveAccountCode(ctx context.Context, tenantID string, line models.PostingRuleLine, dynCtx *models.DynamicContext, accountsCache map[string]string) (string, error) {
	switch {
	case line.AccountSource == models.AccountSourceFixed && line.AccountID != "":
		if code, ok := accountsCache[line.AccountID]; ok && code != "" {
			return code, nil
		}

		code, err := r.accounts.GetAccountCode(ctx, tenantID, line.AccountID)
		if err != nil {
			return "", fmt.Errorf("account %s: %w", line.AccountID, err)
		}
		return code, nil

	case line.AccountSource == models.AccountSourceDynamic && line.DynamicSource != "":
		field, ok := models.DynamicSourceFields[line.DynamicSource]
		if !ok {
			return "", fmt.Errorf("%w: unknown dynamic source %q", ErrDynamicSourceMissing, line.DynamicSource)
		}

		code := ""
		if dynCtx != nil {
			code = field(dynCtx)
		}
		if code == "" {
			return "", fmt.Errorf("%w: %s", ErrDynamicSourceMissing, line.DynamicSource)
		}
		return code, nil

	default:
		return "", ErrInvalidRuleLine
	}
}
