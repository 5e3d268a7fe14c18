package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posting_resolutions_total",
		Help: "Posting rule resolutions by model code and outcome",
	}, []string{"model_code", "outcome"})

	resolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "posting_resolution_duration_seconds",
		Help:    "Time spent resolving posting rules to ledger lines",
		Buckets: prometheus.DefBuckets,
	})

	accountCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posting_account_cache_requests_total",
		Help: "Account code lookups by cache layer outcome",
	}, []string{"outcome"})
)

const (
	outcomeResolved     = "resolved"
	outcomeRuleNotFound = "rule_not_found"
	outcomeError        = "error"
)
