package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records merge and quote outcomes.
type CartMetrics struct {
	mergeDuration *prometheus.HistogramVec
	mergeOutcome  *prometheus.CounterVec
	quotes        *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mergeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_merge_duration_seconds",
		Help:    "Duration of guest-to-account cart merges in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	mergeOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_merge_total",
		Help: "Guest-to-account cart merges by outcome.",
	}, []string{"outcome"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bundle_quote_total",
		Help: "Bundle pricing quotes by tier application.",
	}, []string{"tier_applied"})
	reg.MustRegister(mergeDuration, mergeOutcome, quotes)
	return &CartMetrics{
		mergeDuration: mergeDuration,
		mergeOutcome:  mergeOutcome,
		quotes:        quotes,
	}
}

// ObserveMerge records one merge attempt.
func (c *CartMetrics) ObserveMerge(outcome string, duration time.Duration) {
	if c == nil || c.mergeOutcome == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.mergeOutcome.WithLabelValues(label).Inc()
	c.mergeDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncQuote records one pricing quote, labeled by whether a tier applied.
func (c *CartMetrics) IncQuote(tierApplied bool) {
	if c == nil || c.quotes == nil {
		return
	}
	label := "none"
	if tierApplied {
		label = "tier"
	}
	c.quotes.WithLabelValues(label).Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
