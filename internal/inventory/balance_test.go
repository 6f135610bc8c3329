// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/relay-inventory/internal/iface"
)

// An unmanaged, non-hub chain contributes zero to balanceOn and
// cumulativeBalance regardless of its on-chain balance (spec.md §8
// invariant 2).
func TestBalance_UnmanagedChainContributesZero(t *testing.T) {
	h := newTestHarness(hub)
	token := addr(1)
	cfg := baseConfig(hub, chA, chB)
	cfg.TokenConfig[token] = map[iface.ChainID]ChainTokenConfig{
		chA: {TargetPct: scaledPct(5, 10), ThresholdPct: scaledPct(1, 10)},
	}
	core := h.newCore(cfg)

	h.tokenClient.setBalance(hub, token, 100)
	h.tokenClient.setBalance(chA, token, 50)
	h.tokenClient.setBalance(chB, token, 999) // chB unmanaged for this token

	bal, err := core.balanceOn(context.Background(), chB, token)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0), bal)

	cum, err := core.cumulativeBalance(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(150), cum)
}

// cumulativeBalance is exactly the sum of balanceOn across every
// enabled chain including in-flight outstanding transfers (spec.md §8
// invariant 1).
func TestBalance_CumulativeIsExactSum(t *testing.T) {
	h := newTestHarness(hub)
	token := addr(1)
	cfg := baseConfig(hub, chA, chB)
	cfg.TokenConfig[token] = map[iface.ChainID]ChainTokenConfig{
		chA: {TargetPct: scaledPct(5, 10), ThresholdPct: scaledPct(1, 10)},
		chB: {TargetPct: scaledPct(5, 10), ThresholdPct: scaledPct(1, 10)},
	}
	core := h.newCore(cfg)

	h.tokenClient.setBalance(hub, token, 100)
	h.tokenClient.setBalance(chA, token, 50)
	h.tokenClient.setBalance(chB, token, 25)
	h.transferClnt.IncreaseOutstandingTransfer(testRelayer, token, big.NewInt(10), chA)

	ctx := context.Background()
	cum, err := core.cumulativeBalance(ctx, token)
	require.NoError(t, err)

	var manualSum big.Int
	for _, chain := range []iface.ChainID{hub, chA, chB} {
		b, err := core.balanceOn(ctx, chain, token)
		require.NoError(t, err)
		manualSum.Add(&manualSum, b)
	}
	require.Equal(t, 0, cum.Cmp(&manualSum))
	require.Equal(t, big.NewInt(185), cum) // 100 + (50+10) + 25
}

func TestBalance_ShortfallReducesAllocPct(t *testing.T) {
	h := newTestHarness(hub)
	token := addr(1)
	cfg := baseConfig(hub, chA)
	cfg.TokenConfig[token] = map[iface.ChainID]ChainTokenConfig{
		chA: {TargetPct: scaledPct(5, 10), ThresholdPct: scaledPct(1, 10)},
	}
	core := h.newCore(cfg)

	h.tokenClient.setBalance(hub, token, 0)
	h.tokenClient.setBalance(chA, token, 100)
	h.tokenClient.setShortfall(chA, token, 40)

	pct, err := core.currentAllocPct(context.Background(), token, chA)
	require.NoError(t, err)
	require.Equal(t, 0, pct.Cmp(scaledPct(60, 100)))
}

func TestBalance_ZeroCumulativeYieldsZeroPct(t *testing.T) {
	h := newTestHarness(hub)
	token := addr(1)
	cfg := baseConfig(hub, chA)
	core := h.newCore(cfg)

	pct, err := core.currentAllocPct(context.Background(), token, chA)
	require.NoError(t, err)
	require.Equal(t, 0, pct.Sign())
}
