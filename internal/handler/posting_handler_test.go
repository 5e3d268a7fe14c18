package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/engine"
	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/service"
)

type fakeRuleFinder struct {
	rule *models.PostingRule
	err  error
}

func (f *fakeRuleFinder) FindPostingRule(_ context.Context, _, _ string, _ models.RuleLookupOptions) (*models.PostingRule, error) {
	return f.rule, f.err
}

type fakeRuleReader struct {
	rule  *models.PostingRule
	rules []*models.PostingRule
}

func (f *fakeRuleReader) GetRule(_ context.Context, _ string) (*models.PostingRule, error) {
	return f.rule, nil
}

func (f *fakeRuleReader) ListRules(_ context.Context, _, _ string) ([]*models.PostingRule, error) {
	return f.rules, nil
}

type fakeAccountGetter struct {
	codes map[string]string
}

func (f *fakeAccountGetter) GetAccountCode(_ context.Context, _, accountID string) (string, error) {
	if code, ok := f.codes[accountID]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %s", engine.ErrAccountNotFound, accountID)
}

func (f *fakeAccountGetter) GetAccountCodes(_ context.Context, _ string, accountIDs []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, id := range accountIDs {
		if code, ok := f.codes[id]; ok {
			result[id] = code
		}
	}
	return result, nil
}

type fakeJournal struct{}

func (f *fakeJournal) CreateEntry(_ context.Context, _ *models.JournalEntry, _ []models.JournalLine) error {
	return nil
}

func decimalFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func newTestRouter(finder *fakeRuleFinder, reader *fakeRuleReader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	cache := service.NewAccountCache(&fakeAccountGetter{}, nil, log)
	svc := service.NewPostingService(finder, cache, &fakeJournal{}, log)
	h := NewPostingHandler(svc, reader, log)

	router := gin.New()
	router.POST("/posting/resolve", h.Resolve)
	router.POST("/posting/simulate", h.Simulate)
	router.POST("/posting/preview/:kind", h.Preview)
	router.GET("/posting/models", h.ListModels)
	router.GET("/posting/dynamic-sources", h.ListDynamicSources)
	router.GET("/posting/rules", h.ListRules)
	router.GET("/posting/rules/:id", h.GetRule)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestResolveEndpointNoRule(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodPost, "/posting/resolve", gin.H{
		"tenant_id":  "tenant-1",
		"model_code": "CUSTOMER_PAYMENT",
		"amount":     1200,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no posting rule configured")
}

func TestResolveEndpointSuccess(t *testing.T) {
	rule := &models.PostingRule{
		ID:        "rule-1",
		TenantID:  "tenant-1",
		ModelCode: "CUSTOMER_PAYMENT",
		Name:      "Customer payment",
		Lines: []models.PostingRuleLine{
			{
				LineNumber:    1,
				Side:          models.EntryTypeDebit,
				AccountSource: models.AccountSourceDynamic,
				DynamicSource: models.DynamicSourceBankAccount,
				AmountSource:  models.AmountSourceFull,
			},
			{
				LineNumber:    2,
				Side:          models.EntryTypeCredit,
				AccountSource: models.AccountSourceDynamic,
				DynamicSource: models.DynamicSourcePartnerReceivable,
				AmountSource:  models.AmountSourceFull,
			},
		},
	}
	router := newTestRouter(&fakeRuleFinder{rule: rule}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodPost, "/posting/resolve", gin.H{
		"tenant_id":  "tenant-1",
		"model_code": "CUSTOMER_PAYMENT",
		"amount":     1200,
		"context": gin.H{
			"bankAccountGlCode":     "2410",
			"partnerReceivableCode": "2040",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RuleID string                `json:"rule_id"`
		Lines  []models.ResolvedLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rule-1", resp.RuleID)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "2410", resp.Lines[0].AccountCode)
}

func TestResolveEndpointMissingContext(t *testing.T) {
	rule := &models.PostingRule{
		ID:        "rule-1",
		ModelCode: "CUSTOMER_PAYMENT",
		Lines: []models.PostingRuleLine{
			{
				LineNumber:    1,
				Side:          models.EntryTypeDebit,
				AccountSource: models.AccountSourceDynamic,
				DynamicSource: models.DynamicSourceBankAccount,
				AmountSource:  models.AmountSourceFull,
			},
		},
	}
	router := newTestRouter(&fakeRuleFinder{rule: rule}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodPost, "/posting/resolve", gin.H{
		"tenant_id":  "tenant-1",
		"model_code": "CUSTOMER_PAYMENT",
		"amount":     1200,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "not provided in context")
}

func TestSimulateEndpoint(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodPost, "/posting/simulate", gin.H{
		"test_amount": 1200,
		"lines": []gin.H{
			{
				"side":           "debit",
				"account_source": "fixed",
				"account_id":     "abcdef12-3456",
				"amount_source":  "tax_base",
			},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Lines []models.SimulatedLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Account abcdef12", resp.Lines[0].Source)
	assert.True(t, resp.Lines[0].Amount.Equal(decimalFromInt(1000)))
}

func TestListModelsEndpoint(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodGet, "/posting/models", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CUSTOMER_PAYMENT")
	assert.Contains(t, w.Body.String(), "postingModels.assetDepreciation")
}

func TestListDynamicSourcesEndpoint(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodGet, "/posting/dynamic-sources", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BANK_ACCOUNT")
	assert.Contains(t, w.Body.String(), "CLEARING")
}

func TestPreviewEndpoint(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodPost, "/posting/preview/supplier-invoice", gin.H{
		"net_amount":        1000,
		"vat_amount":        200,
		"expense_account":   "5010",
		"input_vat_account": "2700",
		"payable_account":   "4350",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Lines []models.PreviewLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Lines, 3)
}

func TestPreviewEndpointUnknownKind(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodPost, "/posting/preview/year-end", gin.H{})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRuleEndpointNotFound(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodGet, "/posting/rules/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRulesRequiresTenant(t *testing.T) {
	router := newTestRouter(&fakeRuleFinder{}, &fakeRuleReader{})

	w := doJSON(t, router, http.MethodGet, "/posting/rules", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
