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

// Fill describes a pending fill awaiting a refund-chain decision
// (spec.md §4.3).
type Fill struct {
	OriginChainID      iface.ChainID
	DestinationChainID iface.ChainID
	InputToken         iface.Address
	OutputToken        iface.Address
	OutputAmount       *big.Int
	DepositID          uint64

	// L1Token is optional; if zero-valued it is resolved from
	// (OutputToken, DestinationChainID).
	L1Token iface.Address
}

var zeroAddress iface.Address

// DetermineRefundChainID implements C3: given a fill, decide which
// chain should receive the relayer's refund (spec.md §4.3).
func (c *Core) DetermineRefundChainID(ctx context.Context, fill Fill) (iface.ChainID, error) {
	if c.cfg.Disabled {
		c.logDisabledOnce()
		return fill.DestinationChainID, nil
	}

	equivalent, err := c.hubPool.AreTokensEquivalent(ctx, fill.InputToken, fill.OriginChainID, fill.OutputToken, fill.DestinationChainID)
	if err != nil {
		return 0, fmt.Errorf("inventory: checking token equivalence: %w", err)
	}
	if !equivalent {
		return 0, ErrTokenMismatch
	}

	l1Token := fill.L1Token
	if l1Token == zeroAddress {
		l1Token, err = c.hubPool.L1TokenFor(ctx, fill.OutputToken, fill.DestinationChainID)
		if err != nil {
			return 0, fmt.Errorf("inventory: resolving l1 token: %w", err)
		}
	}

	_, destManaged := c.cfg.ChainConfig(l1Token, fill.DestinationChainID)
	_, originManaged := c.cfg.ChainConfig(l1Token, fill.OriginChainID)
	if !destManaged && !originManaged {
		return fill.DestinationChainID, nil
	}

	refundSets, err := c.refundCache.fetch(ctx, c.bundleData, c.relayer)
	if err != nil {
		return 0, fmt.Errorf("inventory: fetching bundle refunds: %w", err)
	}
	if len(refundSets) > 0 {
		// spec.md §9 open question: the source logs only the first
		// pending-refund entry; preserved literally rather than
		// silently generalized to the full set (see SPEC_FULL.md).
		c.log.Debug("pending refunds for refund-chain selection", "first", refundSets[0], "count", len(refundSets))
	}

	chainsToEvaluate := []iface.ChainID{fill.DestinationChainID}
	if fill.OriginChainID != c.cfg.HubChainID {
		chainsToEvaluate = append(chainsToEvaluate, fill.OriginChainID)
	}

	cumulativeRefunds := fixed.Zero()
	refundByChain := make(map[iface.ChainID]*big.Int, len(chainsToEvaluate))
	for _, ch := range chainsToEvaluate {
		r := c.bundleData.TotalRefund(refundSets, c.relayer, ch, l1Token)
		if r == nil {
			r = fixed.Zero()
		}
		refundByChain[ch] = r
		cumulativeRefunds = fixed.Add(cumulativeRefunds, r)
	}

	cumulativeVirtual, err := c.cumulativeBalance(ctx, l1Token)
	if err != nil {
		return 0, err
	}

	for _, candidate := range chainsToEvaluate {
		if _, managed := c.cfg.ChainConfig(l1Token, candidate); !managed {
			continue
		}
		targetPct, _ := c.cfg.ChainConfig(l1Token, candidate)

		chainBal, err := c.balanceOn(ctx, candidate, l1Token)
		if err != nil {
			return 0, err
		}
		chainShortfall, err := c.shortfall(ctx, l1Token, candidate)
		if err != nil {
			return 0, err
		}
		chainVirt := fixed.Sub(chainBal, chainShortfall)

		chainVirtPost := chainVirt
		if candidate == fill.DestinationChainID {
			chainVirtPost = fixed.Sub(chainVirtPost, fill.OutputAmount)
		}
		chainVirtPost = fixed.Add(chainVirtPost, refundByChain[candidate])

		cumVirtWithShortfall := fixed.Add(fixed.Sub(cumulativeVirtual, chainShortfall), cumulativeRefunds)
		cumVirtPost := fixed.Sub(cumVirtWithShortfall, fill.OutputAmount)

		if cumVirtPost.Sign() == 0 {
			// Division by zero defended against per spec.md §4.3 edge
			// cases: fall through to the next candidate, ultimately the
			// hub fallback.
			continue
		}
		expectedPct := fixed.Pct(chainVirtPost, cumVirtPost)

		if fixed.LessEq(expectedPct, targetPct.TargetPct) {
			return candidate, nil
		}
	}

	return c.cfg.HubChainID, nil
}
