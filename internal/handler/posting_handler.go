package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/engine"
	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/service"
)

// RuleReader serves the rule administration reads.
type RuleReader interface {
	GetRule(ctx context.Context, ruleID string) (*models.PostingRule, error)
	ListRules(ctx context.Context, tenantID, modelCode string) ([]*models.PostingRule, error)
}

type PostingHandler struct {
	service *service.PostingService
	rules   RuleReader
	logger  *zap.Logger
}

func NewPostingHandler(service *service.PostingService, rules RuleReader, logger *zap.Logger) *PostingHandler {
	return &PostingHandler{
		service: service,
		rules:   rules,
		logger:  logger,
	}
}

// Resolve expands the rule for a model code into concrete ledger postings.
func (h *PostingHandler) Resolve(c *gin.Context) {
	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, lines, err := h.service.Resolve(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("failed to resolve posting rule", zap.Error(err))
		c.JSON(resolutionStatus(err), gin.H{"error": err.Error()})
		return
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no posting rule configured", "model_code": req.ModelCode})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rule_id":   rule.ID,
		"rule_name": rule.Name,
		"lines":     lines,
	})
}

// Simulate previews raw line templates without touching any store.
func (h *PostingHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": h.service.Simulate(&req)})
}

// Post resolves a rule and writes the result to the journal.
func (h *PostingHandler) Post(c *gin.Context) {
	var req models.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.Post(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to post journal entry", zap.Error(err))
		c.JSON(resolutionStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListModels returns the model-code vocabulary.
func (h *PostingHandler) ListModels(c *gin.Context) {
	type modelCode struct {
		Code     string `json:"code"`
		LabelKey string `json:"label_key"`
	}

	codes := make([]modelCode, 0, len(models.ModelCodeLabels))
	for code, label := range models.ModelCodeLabels {
		codes = append(codes, modelCode{Code: code, LabelKey: label})
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })

	c.JSON(http.StatusOK, gin.H{"models": codes})
}

// ListDynamicSources returns the dynamic-source vocabulary.
func (h *PostingHandler) ListDynamicSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": models.DynamicSources})
}

// ListRules returns a tenant's configured rules.
func (h *PostingHandler) ListRules(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	rules, err := h.rules.ListRules(c.Request.Context(), tenantID, c.Query("model_code"))
	if err != nil {
		h.logger.Error("failed to list rules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// GetRule returns one rule with its lines.
func (h *PostingHandler) GetRule(c *gin.Context) {
	rule, err := h.rules.GetRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to get rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rule"})
		return
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}

	c.JSON(http.StatusOK, rule)
}

// Preview serves the hard-coded preview patterns for common business events.
func (h *PostingHandler) Preview(c *gin.Context) {
	var lines []models.PreviewLine

	switch kind := c.Param("kind"); kind {
	case "supplier-invoice":
		var req struct {
			NetAmount       decimal.Decimal `json:"net_amount" binding:"required"`
			VATAmount       decimal.Decimal `json:"vat_amount"`
			ExpenseAccount  string          `json:"expense_account" binding:"required"`
			InputVATAccount string          `json:"input_vat_account"`
			PayableAccount  string          `json:"payable_account" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lines = engine.BuildSupplierInvoicePreviewLines(req.NetAmount, req.VATAmount, req.ExpenseAccount, req.InputVATAccount, req.PayableAccount)

	case "supplier-payment":
		var req struct {
			Amount         decimal.Decimal `json:"amount" binding:"required"`
			PayableAccount string          `json:"payable_account" binding:"required"`
			BankAccount    string          `json:"bank_account" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lines = engine.BuildSupplierPaymentPreviewLines(req.Amount, req.PayableAccount, req.BankAccount)

	case "cash":
		var req struct {
			GrossAmount      decimal.Decimal `json:"gross_amount" binding:"required"`
			VATAmount        decimal.Decimal `json:"vat_amount"`
			CashAccount      string          `json:"cash_account" binding:"required"`
			RevenueAccount   string          `json:"revenue_account" binding:"required"`
			OutputVATAccount string          `json:"output_vat_account"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lines = engine.BuildCashPreviewLines(req.GrossAmount, req.VATAmount, req.CashAccount, req.RevenueAccount, req.OutputVATAccount)

	case "deferral":
		var req struct {
			Amount          decimal.Decimal `json:"amount" binding:"required"`
			DeferralAccount string          `json:"deferral_account" binding:"required"`
			SourceAccount   string          `json:"source_account" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lines = engine.BuildDeferralPreviewLines(req.Amount, req.DeferralAccount, req.SourceAccount)

	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preview kind", "kind": kind})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// resolutionStatus maps engine configuration errors to 422 and everything
// else (transport failures) to 500.
func resolutionStatus(err error) int {
	if errors.Is(err, engine.ErrAccountNotFound) ||
		errors.Is(err, engine.ErrDynamicSourceMissing) ||
		errors.Is(err, engine.ErrInvalidRuleLine) ||
		errors.Is(err, service.ErrUnbalanced) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
