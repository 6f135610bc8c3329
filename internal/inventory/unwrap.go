// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/luxfi/relay-inventory/internal/fixed"
	"github.com/luxfi/relay-inventory/internal/iface"
)

// UnwrapCandidate is the unwrap plan entry from spec.md §3.
type UnwrapCandidate struct {
	ChainID         iface.ChainID
	Threshold       *big.Int
	Target          *big.Int
	L2NativeBalance *big.Int
	Amount          *big.Int
}

// UnwrapResult is the outcome of one unwrap cycle.
type UnwrapResult struct {
	Executed   []ExecutedUnwrap
	Unexecuted []UnwrapCandidate
}

// ExecutedUnwrap pairs a candidate with the transaction it produced.
type ExecutedUnwrap struct {
	Candidate UnwrapCandidate
	TxHash    string
}

// planAndExecuteUnwraps implements C6 end to end: for each enabled
// chain, skip chains on the non-canonical-gas exclusion list or missing
// unwrap config, read native balance, and either emit an unwrap
// candidate or record it unexecuted — then submit serially, decrementing
// the local L2 wrapped-token balance before each submission
// (spec.md §4.6, §5).
func (c *Core) planAndExecuteUnwraps(ctx context.Context, l1WrappedNative iface.Address, simMode bool) (UnwrapResult, error) {
	var result UnwrapResult

	excluded := mapset.NewThreadUnsafeSet(c.cfg.NonCanonicalGasChains...)

	for _, chain := range c.cfg.enabledChains() {
		if excluded.Contains(chain) {
			continue
		}
		chainCfg, managed := c.cfg.ChainConfig(l1WrappedNative, chain)
		if !managed || chainCfg.UnwrapWethThreshold == nil || chainCfg.UnwrapWethTarget == nil {
			continue
		}

		nativeBal, err := c.nativeBalance.NativeBalance(ctx, chain)
		if err != nil {
			return result, err
		}
		if !fixed.Less(nativeBal, chainCfg.UnwrapWethThreshold) {
			continue
		}

		amount := fixed.Sub(chainCfg.UnwrapWethTarget, nativeBal)
		cand := UnwrapCandidate{
			ChainID:         chain,
			Threshold:       chainCfg.UnwrapWethThreshold,
			Target:          chainCfg.UnwrapWethTarget,
			L2NativeBalance: nativeBal,
			Amount:          amount,
		}

		l2Wrapped, err := c.hubPool.L2TokenFor(ctx, l1WrappedNative, chain)
		if err != nil {
			return result, err
		}
		wrappedBal, err := c.tokenClient.Balance(ctx, chain, l2Wrapped)
		if err != nil {
			return result, err
		}
		if fixed.Less(wrappedBal, amount) {
			c.log.Warn("wrapped-token balance insufficient to cover unwrap amount; marking unexecuted",
				"chain", chain, "amount", amount, "wrappedBalance", wrappedBal)
			result.Unexecuted = append(result.Unexecuted, cand)
			continue
		}

		c.tokenClient.DecrementLocalBalance(chain, l2Wrapped, amount)

		tx, err := c.adapterMgr.UnwrapWeth(ctx, c.relayer, chain, l1WrappedNative, amount, simMode)
		if err != nil {
			return result, err
		}
		result.Executed = append(result.Executed, ExecutedUnwrap{Candidate: cand, TxHash: tx.Hash})
	}

	return result, nil
}

// resolveWrappedNativeToken finds the managed L1 token whose hub-pool
// metadata symbol matches the well-known wrapped-native symbol
// (spec.md §4.6: "addressed by a well-known symbol").
func (c *Core) resolveWrappedNativeToken(ctx context.Context, symbol string) (iface.Address, error) {
	for _, l1Token := range c.cfg.managedL1Tokens() {
		info, err := c.hubPool.TokenInfoFor(ctx, l1Token)
		if err != nil {
			return zeroAddress, fmt.Errorf("%w: %s", ErrMissingTokenInfo, l1Token)
		}
		if strings.EqualFold(info.Symbol, symbol) {
			return l1Token, nil
		}
	}
	return zeroAddress, fmt.Errorf("inventory: no managed token with symbol %q", symbol)
}

// UnwrapWeth runs one native-gas replenishment cycle, catching and
// logging cycle-level errors the same way RebalanceInventoryIfNeeded
// does (spec.md §7).
func (c *Core) UnwrapWeth(ctx context.Context, wrappedNativeSymbol string, simMode bool) UnwrapResult {
	if c.cfg.Disabled {
		c.logDisabledOnce()
		return UnwrapResult{}
	}

	l1WrappedNative, err := c.resolveWrappedNativeToken(ctx, wrappedNativeSymbol)
	if err != nil {
		c.log.Error("unwrap cycle failed to resolve wrapped-native token", "error", err)
		return UnwrapResult{}
	}

	result, err := c.planAndExecuteUnwraps(ctx, l1WrappedNative, simMode)
	if err != nil {
		c.log.Error("unwrap cycle failed; retaining partial progress", "error", err, "executed", len(result.Executed))
	}
	return result
}
