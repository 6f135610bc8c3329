// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package telemetry registers the prometheus metrics that make the
// rebalance and unwrap cycles observable (SPEC_FULL.md "Metrics
// surface"). The teacher bridges its own metrics registry into
// prometheus via metrics/prometheus.Gatherer; since this service has no
// competing in-process metrics registry of its own, metrics are
// registered directly against a prometheus.Registry instead of through
// that bridge.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the cycle-observability counters for the inventory
// core.
type Metrics struct {
	RebalanceCandidates  prometheus.Counter
	RebalanceExecuted    prometheus.Counter
	RebalanceUnexecuted  prometheus.Counter
	RebalanceSkippedWarn prometheus.Counter

	UnwrapCandidates prometheus.Counter
	UnwrapExecuted   prometheus.Counter
	UnwrapUnexecuted prometheus.Counter

	RefundChainSelections *prometheus.CounterVec
}

// New builds a Metrics set and registers it against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RebalanceCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "rebalance", Name: "candidates_total",
			Help: "Rebalance candidates produced by the planner across all cycles.",
		}),
		RebalanceExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "rebalance", Name: "executed_total",
			Help: "Rebalance candidates accepted and submitted.",
		}),
		RebalanceUnexecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "rebalance", Name: "unexecuted_total",
			Help: "Rebalance candidates left unexecuted because the hub balance was exhausted.",
		}),
		RebalanceSkippedWarn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "rebalance", Name: "skipped_balance_changed_total",
			Help: "Rebalance candidates skipped because the on-chain hub balance changed since planning.",
		}),
		UnwrapCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "unwrap", Name: "candidates_total",
			Help: "Unwrap candidates produced by the planner across all cycles.",
		}),
		UnwrapExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "unwrap", Name: "executed_total",
			Help: "Unwrap candidates accepted and submitted.",
		}),
		UnwrapUnexecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "unwrap", Name: "unexecuted_total",
			Help: "Unwrap candidates left unexecuted because the wrapped-token balance was insufficient.",
		}),
		RefundChainSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory", Subsystem: "selector", Name: "refund_chain_total",
			Help: "Refund-chain selections, labeled by the chosen chain's role.",
		}, []string{"role"}),
	}
	reg.MustRegister(
		m.RebalanceCandidates, m.RebalanceExecuted, m.RebalanceUnexecuted, m.RebalanceSkippedWarn,
		m.UnwrapCandidates, m.UnwrapExecuted, m.UnwrapUnexecuted,
		m.RefundChainSelections,
	)
	return m
}

// ObserveRebalance records the outcome counts of one rebalance cycle.
func (m *Metrics) ObserveRebalance(candidates, executed, unexecuted, skippedWarn int) {
	m.RebalanceCandidates.Add(float64(candidates))
	m.RebalanceExecuted.Add(float64(executed))
	m.RebalanceUnexecuted.Add(float64(unexecuted))
	m.RebalanceSkippedWarn.Add(float64(skippedWarn))
}

// ObserveUnwrap records the outcome counts of one unwrap cycle.
func (m *Metrics) ObserveUnwrap(candidates, executed, unexecuted int) {
	m.UnwrapCandidates.Add(float64(candidates))
	m.UnwrapExecuted.Add(float64(executed))
	m.UnwrapUnexecuted.Add(float64(unexecuted))
}

// ObserveRefundChainSelection records which role (destination, origin,
// hub) a refund-chain selection resolved to.
func (m *Metrics) ObserveRefundChainSelection(role string) {
	m.RefundChainSelections.WithLabelValues(role).Inc()
}
