// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"math/big"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/luxfi/relay-inventory/internal/fixed"
	"github.com/luxfi/relay-inventory/internal/iface"
)

// ChainDistribution implements C2's chainDistribution: for each enabled
// chain that is either the hub or managed for l1Token, the chain's share
// of the cumulative virtual balance. Unmanaged non-hub chains are
// omitted entirely (spec.md §4.2, §3 invariant 2).
func (c *Core) ChainDistribution(ctx context.Context, l1Token iface.Address) (map[iface.ChainID]*big.Int, error) {
	cum, err := c.cumulativeBalance(ctx, l1Token)
	if err != nil {
		return nil, err
	}

	// managedOrHub is the set of chains this distribution actually
	// reports on — built once so membership checks below are O(1)
	// regardless of how many chains are configured.
	managedOrHub := mapset.NewThreadUnsafeSet[iface.ChainID]()
	managedOrHub.Add(c.cfg.HubChainID)
	for l1, byChain := range c.cfg.TokenConfig {
		if l1 != l1Token {
			continue
		}
		for chain := range byChain {
			managedOrHub.Add(chain)
		}
	}

	out := make(map[iface.ChainID]*big.Int)
	if cum.Sign() == 0 {
		return out, nil
	}
	for _, chain := range c.cfg.enabledChains() {
		if !managedOrHub.Contains(chain) {
			continue
		}
		bal, err := c.balanceOn(ctx, chain, l1Token)
		if err != nil {
			return nil, err
		}
		out[chain] = fixed.Pct(bal, cum)
	}
	return out, nil
}

// TokenDistribution implements C2's tokenDistribution: ChainDistribution
// for every managed L1 token, in deterministic token order.
func (c *Core) TokenDistribution(ctx context.Context) (map[iface.Address]map[iface.ChainID]*big.Int, error) {
	out := make(map[iface.Address]map[iface.ChainID]*big.Int)
	for _, l1Token := range c.cfg.managedL1Tokens() {
		dist, err := c.ChainDistribution(ctx, l1Token)
		if err != nil {
			return nil, err
		}
		out[l1Token] = dist
	}
	return out, nil
}
