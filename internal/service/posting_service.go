package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/engine"
	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

var (
	// ErrRuleNotFound means no posting rule is configured for the model code
	// and context. Callers fall back to manual posting.
	ErrRuleNotFound = errors.New("no posting rule configured")

	// ErrUnbalanced means the resolved lines do not balance, so the entry
	// must not be written to the ledger.
	ErrUnbalanced = errors.New("debits must equal credits in double-entry bookkeeping")
)

// RuleFinder is the rule store contract. The matching/precedence algorithm
// lives behind it and can be swapped without touching the resolver.
type RuleFinder interface {
	FindPostingRule(ctx context.Context, tenantID, modelCode string, opts models.RuleLookupOptions) (*models.PostingRule, error)
}

// JournalWriter persists a balanced journal entry.
type JournalWriter interface {
	CreateEntry(ctx context.Context, entry *models.JournalEntry, lines []models.JournalLine) error
}

// PostingService orchestrates rule lookup, resolution and journal writing.
type PostingService struct {
	rules    RuleFinder
	accounts *AccountCache
	journal  JournalWriter
	resolver *engine.Resolver
	logger   *zap.Logger
}

func NewPostingService(rules RuleFinder, accounts *AccountCache, journal JournalWriter, logger *zap.Logger) *PostingService {
	return &PostingService{
		rules:    rules,
		accounts: accounts,
		journal:  journal,
		resolver: engine.NewResolver(accounts, logger),
		logger:   logger,
	}
}

// FindRule fetches the rule for a model code, or nil when none is configured.
func (s *PostingService) FindRule(ctx context.Context, tenantID, modelCode string, opts models.RuleLookupOptions) (*models.PostingRule, error) {
	if tenantID == "" || modelCode == "" {
		return nil, fmt.Errorf("tenant id and model code are required")
	}

	return s.rules.FindPostingRule(ctx, tenantID, modelCode, opts)
}

// Resolve looks up the rule for the request and expands it into ledger
// postings. A nil rule with nil error means no rule is configured.
func (s *PostingService) Resolve(ctx context.Context, req *models.ResolveRequest) (*models.PostingRule, []models.ResolvedLine, error) {
	start := time.Now()

	rule, err := s.FindRule(ctx, req.TenantID, req.ModelCode, models.RuleLookupOptions{
		BankAccountID: req.BankAccountID,
		Currency:      req.Currency,
		PartnerType:   req.PartnerType,
	})
	if err != nil {
		resolutionsTotal.WithLabelValues(req.ModelCode, outcomeError).Inc()
		return nil, nil, fmt.Errorf("rule lookup failed: %w", err)
	}
	if rule == nil {
		resolutionsTotal.WithLabelValues(req.ModelCode, outcomeRuleNotFound).Inc()
		return nil, nil, nil
	}

	cache, err := s.warmFixedAccounts(ctx, req.TenantID, rule.Lines)
	if err != nil {
		resolutionsTotal.WithLabelValues(req.ModelCode, outcomeError).Inc()
		return nil, nil, err
	}

	lines, err := s.resolver.Resolve(ctx, req.TenantID, rule.Lines, req.Amount, &req.Context, cache)
	if err != nil {
		resolutionsTotal.WithLabelValues(req.ModelCode, outcomeError).Inc()
		return nil, nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}

	resolutionsTotal.WithLabelValues(req.ModelCode, outcomeResolved).Inc()
	resolutionDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("posting rule resolved",
		zap.String("tenant_id", req.TenantID),
		zap.String("model_code", req.ModelCode),
		zap.String("rule_id", rule.ID),
		zap.Int("lines", len(lines)))

	return rule, lines, nil
}

// Simulate previews line templates without any store access.
func (s *PostingService) Simulate(req *models.SimulateRequest) []models.SimulatedLine {
	return engine.Simulate(req.Lines, req.TestAmount, req.TaxRate)
}

// Post resolves the request and persists the result as a journal entry. The
// balance check the engine deliberately omits happens here, before anything
// is written.
func (s *PostingService) Post(ctx context.Context, req *models.PostRequest) (*models.JournalEntry, error) {
	rule, resolved, err := s.Resolve(ctx, &req.ResolveRequest)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, req.ModelCode)
	}

	if err := CheckBalanced(resolved); err != nil {
		s.logger.Error("refusing to post unbalanced entry",
			zap.String("rule_id", rule.ID),
			zap.Error(err))
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = rule.Name
	}

	entry := &models.JournalEntry{
		ID:          uuid.New().String(),
		TenantID:    req.TenantID,
		RuleID:      rule.ID,
		ModelCode:   req.ModelCode,
		Description: description,
		CreatedAt:   time.Now(),
	}

	lines := make([]models.JournalLine, 0, len(resolved))
	for _, line := range resolved {
		lines = append(lines, models.JournalLine{
			ID:          uuid.New().String(),
			EntryID:     entry.ID,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			SortOrder:   line.SortOrder,
		})
	}

	if err := s.journal.CreateEntry(ctx, entry, lines); err != nil {
		return nil, fmt.Errorf("failed to write journal entry: %w", err)
	}

	entry.Lines = lines

	s.logger.Info("journal entry posted",
		zap.String("tenant_id", req.TenantID),
		zap.String("entry_id", entry.ID),
		zap.String("model_code", req.ModelCode))

	return entry, nil
}

// CheckBalanced verifies that total debits equal total credits. A
// misconfigured rule can resolve to an unbalanced set; the engine does not
// enforce this, so the writer must.
func CheckBalanced(lines []models.ResolvedLine) error {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, line := range lines {
		totalDebits = totalDebits.Add(line.Debit)
		totalCredits = totalCredits.Add(line.Credit)
	}

	if !totalDebits.Equal(totalCredits) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrUnbalanced, totalDebits, totalCredits)
	}

	return nil
}

func (s *PostingService) warmFixedAccounts(ctx context.Context, tenantID string, lines []models.PostingRuleLine) (map[string]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, line := range lines {
		if line.AccountSource == models.AccountSourceFixed && line.AccountID != "" && !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}

	return s.accounts.Warm(ctx, tenantID, ids)
}
