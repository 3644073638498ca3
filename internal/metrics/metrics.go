package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_limit_decisions_total",
			Help: "Total number of limit-increase decisions by status",
		},
		[]string{"status"},
	)

	LedgerFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_ledger_write_failures_total",
			Help: "Total number of ledger entries that could not be written",
		},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_auth_attempts_total",
			Help: "Total number of authentication attempts by result",
		},
		[]string{"result"},
	)

	InterviewsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_interviews_completed_total",
			Help: "Total number of interviews that persisted a new score",
		},
	)

	InterviewScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_interview_score",
			Help:    "Distribution of scores produced by the interview",
			Buckets: prometheus.LinearBuckets(0, 100, 11),
		},
	)

	FXLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_fx_lookups_total",
			Help: "Total number of FX quote lookups by result",
		},
		[]string{"result"},
	)
)
