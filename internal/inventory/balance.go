// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"math/big"

	"github.com/luxfi/relay-inventory/internal/fixed"
	"github.com/luxfi/relay-inventory/internal/iface"
)

// balanceOn implements C1's balanceOn: the virtual balance of l1Token on
// chain, folding in outstanding cross-chain transfers already in flight
// toward chain. A chain that is neither the hub nor managed for this
// token contributes nothing (spec.md §4.1, §3 invariants).
func (c *Core) balanceOn(ctx context.Context, chain iface.ChainID, l1Token iface.Address) (*big.Int, error) {
	if chain != c.cfg.HubChainID {
		if _, managed := c.cfg.ChainConfig(l1Token, chain); !managed {
			return fixed.Zero(), nil
		}
	}

	l2Token, err := c.hubPool.L2TokenFor(ctx, l1Token, chain)
	if err != nil {
		return nil, err
	}
	onChain, err := c.tokenClient.Balance(ctx, chain, l2Token)
	if err != nil {
		return nil, err
	}
	inFlight, err := c.transferClnt.OutstandingCrossChainTransferAmount(ctx, c.relayer, chain, l1Token)
	if err != nil {
		return nil, err
	}
	return fixed.Add(onChain, inFlight), nil
}

// cumulativeBalance implements C1's cumulativeBalance: the sum of
// balanceOn across every enabled chain (spec.md §4.1; hub always
// contributes, per §9).
func (c *Core) cumulativeBalance(ctx context.Context, l1Token iface.Address) (*big.Int, error) {
	sum := fixed.Zero()
	for _, chain := range c.cfg.enabledChains() {
		b, err := c.balanceOn(ctx, chain, l1Token)
		if err != nil {
			return nil, err
		}
		sum = fixed.Add(sum, b)
	}
	return sum, nil
}

// shortfall implements C1's shortfall: outstanding fill obligations
// already committed to on chain, as reported by the token client.
func (c *Core) shortfall(ctx context.Context, l1Token iface.Address, chain iface.ChainID) (*big.Int, error) {
	l2Token, err := c.hubPool.L2TokenFor(ctx, l1Token, chain)
	if err != nil {
		return nil, err
	}
	return c.tokenClient.ShortfallTotalRequirement(ctx, chain, l2Token)
}

// currentAllocPct implements C1's currentAllocPct:
// (balanceOn - shortfall) * S / cumulative, or zero when cumulative is
// zero (spec.md §3 invariants, §4.1).
func (c *Core) currentAllocPct(ctx context.Context, l1Token iface.Address, chain iface.ChainID) (*big.Int, error) {
	bal, err := c.balanceOn(ctx, chain, l1Token)
	if err != nil {
		return nil, err
	}
	sf, err := c.shortfall(ctx, l1Token, chain)
	if err != nil {
		return nil, err
	}
	cum, err := c.cumulativeBalance(ctx, l1Token)
	if err != nil {
		return nil, err
	}
	return fixed.Pct(fixed.Sub(bal, sf), cum), nil
}
