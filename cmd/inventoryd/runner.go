// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/relay-inventory/internal/inventory"
	"github.com/luxfi/relay-inventory/internal/telemetry"
)

// runner drives the rebalance and unwrap cycles on independent tickers.
// spec.md describes the cycle algorithms (C4/C5/C6) but not the process
// that schedules them (SPEC_FULL.md "Cycle runner").
type runner struct {
	core    *inventory.Core
	metrics *telemetry.Metrics
	log     log.Logger

	simMode             bool
	wrappedNativeSymbol string
	rebalanceInterval   time.Duration
	unwrapInterval      time.Duration
}

func (r *runner) run(ctx context.Context) {
	rebalanceTicker := time.NewTicker(r.rebalanceInterval)
	defer rebalanceTicker.Stop()
	unwrapTicker := time.NewTicker(r.unwrapInterval)
	defer unwrapTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rebalanceTicker.C:
			r.core.ResetCycle()
			res := r.core.RebalanceInventoryIfNeeded(ctx, r.simMode)
			r.metrics.ObserveRebalance(
				len(res.Executed)+len(res.Unexecuted)+len(res.SkippedWarn),
				len(res.Executed), len(res.Unexecuted), len(res.SkippedWarn),
			)
			r.log.Info("rebalance cycle complete", "executed", len(res.Executed), "unexecuted", len(res.Unexecuted), "skippedBalanceChanged", len(res.SkippedWarn))
		case <-unwrapTicker.C:
			res := r.core.UnwrapWeth(ctx, r.wrappedNativeSymbol, r.simMode)
			r.metrics.ObserveUnwrap(len(res.Executed)+len(res.Unexecuted), len(res.Executed), len(res.Unexecuted))
			r.log.Info("unwrap cycle complete", "executed", len(res.Executed), "unexecuted", len(res.Unexecuted))
		}
	}
}
