// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"fmt"
	"math/big"

	"github.com/luxfi/relay-inventory/internal/iface"
)

// ChainTokenConfig is the per-(L1Token, ChainId) configuration entry
// (spec.md §3). ThresholdPct must be <= TargetPct; Config.Validate
// checks this across every entry, since the YAML decode path
// (cmd/inventoryd/config) is not the only way a Config gets built.
type ChainTokenConfig struct {
	TargetPct    *big.Int
	ThresholdPct *big.Int

	// UnwrapWethThreshold/UnwrapWethTarget are optional per spec.md §4.6
	// step 2: absence means the native-gas replenishment cycle skips
	// this chain entirely.
	UnwrapWethThreshold *big.Int
	UnwrapWethTarget    *big.Int
}

// Config is the shared InventoryConfig (spec.md §3): per-token,
// per-chain targets and thresholds, plus the optional wrap-cycle
// globals.
type Config struct {
	HubChainID iface.ChainID

	// TokenConfig[l1Token][chainId] — absence of either key means "not
	// managed on this chain"; see Config.ChainConfig.
	TokenConfig map[iface.Address]map[iface.ChainID]ChainTokenConfig

	// EnabledChains lists every chain the core is aware of besides the
	// hub chain. The hub is always implicitly enabled regardless of
	// TokenConfig (spec.md §9, "Hub-chain handling in enabled chains").
	EnabledChains []iface.ChainID

	// WrappedNativeTokenSymbol names the L1 wrapped-native token by its
	// well-known symbol (spec.md §4.6). Core does not read this field:
	// UnwrapWeth takes the symbol as an argument.
	WrappedNativeTokenSymbol string

	// NonCanonicalGasChains lists chains whose native gas token is not
	// the wrapped-token pair's underlying native asset — the explicit
	// unwrap exclusion list from spec.md §4.6 step 1.
	NonCanonicalGasChains []iface.ChainID

	iface.WrapConfig

	// Disabled short-circuits the selector (step 1) and skips the
	// rebalance/unwrap cycles entirely (spec.md §4.3, §4.4).
	Disabled bool
}

// Validate checks that every configured ChainTokenConfig entry
// satisfies thresholdPct <= targetPct (spec.md §3). cmd/inventoryd's
// YAML decode path already enforces this per-entry as it decodes; this
// method exists so a Config assembled directly by an embedding
// deployment gets the same guarantee.
func (c *Config) Validate() error {
	for l1Token, byChain := range c.TokenConfig {
		for chain, chainCfg := range byChain {
			if chainCfg.ThresholdPct.Cmp(chainCfg.TargetPct) > 0 {
				return fmt.Errorf("inventory: tokenConfig[%s][%d]: thresholdPct (%s) must be <= targetPct (%s)",
					l1Token, chain, chainCfg.ThresholdPct, chainCfg.TargetPct)
			}
		}
	}
	return nil
}

// ChainConfig looks up the per-chain entry for an L1 token. The second
// return value is false when the token or the chain is unmanaged, i.e.
// "absent" per spec.md §3.
func (c *Config) ChainConfig(l1Token iface.Address, chain iface.ChainID) (ChainTokenConfig, bool) {
	byChain, ok := c.TokenConfig[l1Token]
	if !ok {
		return ChainTokenConfig{}, false
	}
	cfg, ok := byChain[chain]
	return cfg, ok
}

// enabledChains returns every chain the hub-chain-always-enabled
// asymmetry applies to: EnabledChains plus the hub, deduplicated, in a
// deterministic order (hub first, then EnabledChains in configured
// order) — see spec.md §9 on deterministic iteration.
func (c *Config) enabledChains() []iface.ChainID {
	out := make([]iface.ChainID, 0, len(c.EnabledChains)+1)
	seen := make(map[iface.ChainID]bool, len(c.EnabledChains)+1)
	out = append(out, c.HubChainID)
	seen[c.HubChainID] = true
	for _, ch := range c.EnabledChains {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return out
}

// managedL1Tokens returns every L1 token that has a TokenConfig key
// (including one whose per-chain map is empty), sorted by their string
// form — spec.md §9 requires deterministic iteration over the outer
// token loop.
func (c *Config) managedL1Tokens() []iface.Address {
	out := make([]iface.Address, 0, len(c.TokenConfig))
	for t := range c.TokenConfig {
		out = append(out, t)
	}
	sortAddresses(out)
	return out
}

func sortAddresses(addrs []iface.Address) {
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j].String() < addrs[j-1].String(); j-- {
			addrs[j], addrs[j-1] = addrs[j-1], addrs[j]
		}
	}
}
