// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/relay-inventory/internal/fixed"
	"github.com/luxfi/relay-inventory/internal/iface"
)

// RebalanceCandidate is the rebalance plan entry from spec.md §3: a
// hub->L2 transfer that would close an allocation gap.
type RebalanceCandidate struct {
	ChainID           iface.ChainID
	L1Token           iface.Address
	ThresholdPct      *big.Int
	TargetPct         *big.Int
	CurrentAllocPct   *big.Int
	Balance           *big.Int // the relayer's hub-chain balance snapshot at planning time
	CumulativeBalance *big.Int
	Amount            *big.Int
}

// RebalanceResult is the outcome of one rebalance cycle: which
// candidates were accepted and submitted, which were skipped, and which
// never got the chance because the hub balance ran out (spec.md §4.5).
type RebalanceResult struct {
	Executed    []ExecutedRebalance
	Unexecuted  []RebalanceCandidate
	SkippedWarn []RebalanceCandidate
}

// ExecutedRebalance pairs a candidate with the transaction it produced.
type ExecutedRebalance struct {
	Candidate RebalanceCandidate
	TxHash    string
}

// planRebalance implements C4: detect under-allocated chains and compute
// the transfer amount that would restore target (spec.md §4.4). Gating
// against the hub balance happens in executeRebalance, not here.
func (c *Core) planRebalance(ctx context.Context) ([]RebalanceCandidate, error) {
	dist, err := c.TokenDistribution(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Debug("considering rebalance", "tokenDistribution", dist)

	var candidates []RebalanceCandidate
	for _, l1Token := range c.cfg.managedL1Tokens() {
		cum, err := c.cumulativeBalance(ctx, l1Token)
		if err != nil {
			return nil, err
		}
		if cum.Sign() <= 0 {
			continue
		}

		for _, chain := range c.cfg.EnabledChains {
			if chain == c.cfg.HubChainID {
				continue
			}
			chainCfg, managed := c.cfg.ChainConfig(l1Token, chain)
			if !managed {
				continue
			}

			allocPct, err := c.currentAllocPct(ctx, l1Token, chain)
			if err != nil {
				return nil, err
			}
			if !fixed.Less(allocPct, chainCfg.ThresholdPct) {
				continue
			}

			amount := fixed.MulDiv(fixed.Sub(chainCfg.TargetPct, allocPct), cum)
			if !fixed.IsPositive(amount) {
				// thresholdPct <= targetPct (spec.md §3) keeps the
				// percentage gap positive, but MulDiv's truncation can
				// still round a small gap times cumulative down to zero;
				// skip rather than emit a non-positive-amount candidate
				// (spec.md §8 invariant 3).
				continue
			}

			l2HubToken, err := c.hubPool.L2TokenFor(ctx, l1Token, c.cfg.HubChainID)
			if err != nil {
				return nil, err
			}
			hubBalance, err := c.tokenClient.Balance(ctx, c.cfg.HubChainID, l2HubToken)
			if err != nil {
				return nil, err
			}

			candidates = append(candidates, RebalanceCandidate{
				ChainID:           chain,
				L1Token:           l1Token,
				ThresholdPct:      chainCfg.ThresholdPct,
				TargetPct:         chainCfg.TargetPct,
				CurrentAllocPct:   allocPct,
				Balance:           hubBalance,
				CumulativeBalance: cum,
				Amount:            amount,
			})
		}
	}
	return candidates, nil
}

// executeRebalance implements C5: gate planned candidates against the
// relayer's unallocated hub balance, recheck for concurrent-instance
// drift, accept or reject each in planner order, and submit accepted
// transfers serially (spec.md §4.5, §5).
func (c *Core) executeRebalance(ctx context.Context, candidates []RebalanceCandidate, simMode bool) (RebalanceResult, error) {
	var result RebalanceResult

	for _, cand := range candidates {
		l2HubToken, err := c.hubPool.L2TokenFor(ctx, cand.L1Token, c.cfg.HubChainID)
		if err != nil {
			return result, err
		}
		unallocated, err := c.tokenClient.Balance(ctx, c.cfg.HubChainID, l2HubToken)
		if err != nil {
			return result, err
		}
		if fixed.Less(unallocated, cand.Amount) {
			c.log.Warn("rebalance candidate exceeds unallocated hub balance; marking unexecuted",
				"chain", cand.ChainID, "l1Token", cand.L1Token, "amount", cand.Amount, "unallocated", unallocated)
			result.Unexecuted = append(result.Unexecuted, cand)
			continue
		}

		// Re-read via the on-chain reader, not the token client: the token
		// client's balance already reflects this cycle's own
		// DecrementLocalBalance reservations from earlier candidates
		// sharing this l2HubToken, so reusing it here would mistake our
		// own bookkeeping for concurrent-instance drift.
		actual, err := c.onChainReader.BalanceOf(ctx, c.cfg.HubChainID, l2HubToken)
		if err != nil {
			return result, err
		}
		if actual.Cmp(cand.Balance) != 0 {
			bcErr := &BalanceChangedError{Chain: c.cfg.HubChainID, L1Token: cand.L1Token, Snapshot: cand.Balance, Actual: actual}
			c.log.Warn("hub balance changed since planning; skipping candidate", "error", bcErr)
			result.SkippedWarn = append(result.SkippedWarn, cand)
			continue
		}

		// Bookkeeping happens before submission, per spec.md §5: a
		// failed submission still leaves the reservation in place,
		// biasing toward under- rather than over-sending next cycle.
		c.tokenClient.DecrementLocalBalance(c.cfg.HubChainID, l2HubToken, cand.Amount)
		c.transferClnt.IncreaseOutstandingTransfer(c.relayer, cand.L1Token, cand.Amount, cand.ChainID)

		tx, err := c.adapterMgr.SendTokenCrossChain(ctx, c.relayer, cand.ChainID, cand.L1Token, cand.Amount, simMode)
		if err != nil {
			return result, fmt.Errorf("inventory: submitting rebalance to chain %d: %w", cand.ChainID, err)
		}
		result.Executed = append(result.Executed, ExecutedRebalance{Candidate: cand, TxHash: tx.Hash})
	}

	return result, nil
}

// RebalanceInventoryIfNeeded runs one full rebalance cycle: plan, then
// execute. Errors are caught and logged at this cycle boundary rather
// than propagated, so the scheduler can simply retry next cycle
// (spec.md §4.4 step 1, §7) — the returned result reflects whatever
// partial progress was made before the failure.
func (c *Core) RebalanceInventoryIfNeeded(ctx context.Context, simMode bool) RebalanceResult {
	if c.cfg.Disabled {
		c.logDisabledOnce()
		return RebalanceResult{}
	}

	candidates, err := c.planRebalance(ctx)
	if err != nil {
		c.log.Error("rebalance cycle failed while planning", "error", err)
		return RebalanceResult{}
	}

	result, err := c.executeRebalance(ctx, candidates, simMode)
	if err != nil {
		c.log.Error("rebalance cycle failed during execution; retaining partial progress",
			"error", err, "executed", len(result.Executed), "unexecuted", len(result.Unexecuted))
	}
	return result
}
