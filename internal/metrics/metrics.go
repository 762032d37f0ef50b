package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the KYC pipeline and the wallet ledger.
type Metrics struct {
	// Uploads by document type and side
	Uploads *prometheus.CounterVec

	// Reviewer decisions by outcome
	Decisions *prometheus.CounterVec

	ScoringFailures prometheus.Counter
	DocumentsSwept  prometheus.Counter

	AutoScore       prometheus.Histogram
	ScoringDuration prometheus.Histogram

	// Deposit completions by result: completed, failed, noop
	Deposits *prometheus.CounterVec

	// Cap refusals by stage: intent, completion
	CapRejections *prometheus.CounterVec
}

// New registers every metric on reg. Pass prometheus.DefaultRegisterer in main
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_uploads_total",
			Help: "Total KYC document uploads by type and side",
		}, []string{"type", "side"}),

		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_decisions_total",
			Help: "Total reviewer decisions by outcome",
		}, []string{"decision"}),

		ScoringFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "kyc_scoring_failures_total",
			Help: "Scoring runs that ended in an error",
		}),

		DocumentsSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "kyc_documents_swept_total",
			Help: "Documents removed by the retention sweep",
		}),

		AutoScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_auto_score",
			Help:    "Distribution of automatic document scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 125, 150},
		}),

		ScoringDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_scoring_duration_seconds",
			Help:    "Duration of a full scoring run including OCR",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		Deposits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_deposits_total",
			Help: "Deposit completion attempts by result",
		}, []string{"result"}),

		CapRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_cap_rejections_total",
			Help: "Deposits refused by the KYC deposit cap by stage",
		}, []string{"stage"}),
	}
}

func (m *Metrics) IncUpload(docType, side string) {
	if m != nil {
		m.Uploads.WithLabelValues(docType, side).Inc()
	}
}

func (m *Metrics) IncDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) IncScoringFailure() {
	if m != nil {
		m.ScoringFailures.Inc()
	}
}

func (m *Metrics) AddSwept(n int) {
	if m != nil {
		m.DocumentsSwept.Add(float64(n))
	}
}

// ObserveScore records a finished scoring run.
func (m *Metrics) ObserveScore(score int, d time.Duration) {
	if m != nil {
		m.AutoScore.Observe(float64(score))
		m.ScoringDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncDeposit(result string) {
	if m != nil {
		m.Deposits.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncCapRejection(stage string) {
	if m != nil {
		m.CapRejections.WithLabelValues(stage).Inc()
	}
}
