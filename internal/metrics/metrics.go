// Package metrics exposes cognitive engine runtime counters to
// Prometheus: routing decisions, tier latency, and budget utilization.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cortexlabs/cogengine/internal/budget"
	"github.com/cortexlabs/cogengine/internal/tiers"
)

// Registry bundles the cognitive engine's Prometheus collectors. One
// Registry is created per process and shared across the processor,
// router, and background processor.
type Registry struct {
	reg *prometheus.Registry

	RoutingDecisions *prometheus.CounterVec
	Downgrades       *prometheus.CounterVec
	TierLatency      *prometheus.HistogramVec
	BudgetSpentUSD   *prometheus.GaugeVec
	ThoughtsActive   prometheus.Gauge
	SynthesesTotal   prometheus.Counter
}

// NewRegistry creates a Registry with all collectors registered against
// a fresh prometheus.Registry (not the global default, so tests and
// multiple engine instances in one process don't collide).
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		RoutingDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cogengine",
			Subsystem: "router",
			Name:      "decisions_total",
			Help:      "Routing decisions by cognitive tier and resulting model tier.",
		}, []string{"cognitive_tier", "model_tier"}),
		Downgrades: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cogengine",
			Subsystem: "router",
			Name:      "downgrades_total",
			Help:      "Routing decisions that downgraded from the target model tier, by reason.",
		}, []string{"reason"}),
		TierLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cogengine",
			Subsystem: "router",
			Name:      "tier_latency_seconds",
			Help:      "Inference latency observed per model tier.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"model_tier"}),
		BudgetSpentUSD: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cogengine",
			Subsystem: "budget",
			Name:      "spent_usd",
			Help:      "Hourly spend so far per model tier.",
		}, []string{"model_tier"}),
		ThoughtsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "cogengine",
			Subsystem: "mind",
			Name:      "thoughts_active",
			Help:      "Thoughts currently held in the internal mind, across all streams.",
		}),
		SynthesesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cogengine",
			Subsystem: "mind",
			Name:      "syntheses_total",
			Help:      "Thought streams synthesized into a single contribution.",
		}),
	}
}

// Handler returns the HTTP handler that serves this Registry's metrics
// in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveRouting records one routing decision, including latency and any
// downgrade that occurred.
func (r *Registry) ObserveRouting(cognitive tiers.CognitiveTier, target, actual tiers.ModelTier, downgradeReason string, latencySeconds float64) {
	r.RoutingDecisions.WithLabelValues(cognitive.String(), actual.String()).Inc()
	r.TierLatency.WithLabelValues(actual.String()).Observe(latencySeconds)
	if actual != target {
		r.Downgrades.WithLabelValues(downgradeReason).Inc()
	}
}

// ObserveBudget updates the spend gauges from a budget status snapshot.
func (r *Registry) ObserveBudget(status budget.Status) {
	for tier, spent := range status.CostByTier {
		r.BudgetSpentUSD.WithLabelValues(tier.String()).Set(spent)
	}
}

// ObserveSynthesis records a stream synthesis and updates the active
// thought gauge.
func (r *Registry) ObserveSynthesis(activeThoughts int) {
	r.SynthesesTotal.Inc()
	r.ThoughtsActive.Set(float64(activeThoughts))
}
