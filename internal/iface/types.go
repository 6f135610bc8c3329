// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package iface declares the capability interfaces the inventory core
// consumes. Every external collaborator named in spec.md §6 (token
// client, hub-pool client, cross-chain-transfer client, adapter manager,
// bundle data client) gets one small interface here, following the
// per-concern interface-file layout the teacher uses under its own
// iface package.
package iface

import (
	"context"
	"math/big"
)

// ChainID identifies a chain. The hub chain is just another ChainID that
// happens to equal HubPoolClient.ChainID(); there is no distinguished Go
// type for it.
type ChainID uint64

// Address is an opaque 20-byte chain address — an L1Token, an L2Token, or
// a relayer account. Equality and map-keying are the only operations the
// inventory core needs; it never inspects the bytes.
type Address [20]byte

// String renders the address as 0x-prefixed hex.
func (a Address) String() string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, 2+len(a)*2)
	buf[0], buf[1] = '0', 'x'
	for i, b := range a {
		buf[2+i*2] = hexdigits[b>>4]
		buf[3+i*2] = hexdigits[b&0xf]
	}
	return string(buf)
}

// TokenInfo is the metadata the hub-pool client returns for a managed
// L1 token.
type TokenInfo struct {
	Symbol   string
	Decimals uint8
}

// TokenClient is the balance-tracking surface shared with the filler: it
// reports on-chain and locally-reserved balances and shortfalls, and
// lets the inventory core reserve capital for a cross-chain transfer by
// decrementing the local hub-side counter (spec.md §5, §6).
type TokenClient interface {
	// Balance returns the relayer's balance of token on chain, from the
	// local balance tracker (may already reflect prior reservations made
	// this cycle).
	Balance(ctx context.Context, chain ChainID, token Address) (*big.Int, error)

	// DecrementLocalBalance reserves amt of token on chain for an
	// in-flight transfer, so subsequent Balance calls this cycle see the
	// reservation.
	DecrementLocalBalance(chain ChainID, token Address, amt *big.Int)

	// ShortfallTotalRequirement returns the outstanding fill obligations
	// the relayer has already committed to on chain for token.
	ShortfallTotalRequirement(ctx context.Context, chain ChainID, token Address) (*big.Int, error)
}

// HubPoolClient maps L1 and L2 token addresses across chains and reports
// the hub chain identity.
type HubPoolClient interface {
	ChainID() ChainID
	L2TokenFor(ctx context.Context, l1Token Address, chain ChainID) (Address, error)
	L1TokenFor(ctx context.Context, l2Token Address, chain ChainID) (Address, error)
	AreTokensEquivalent(ctx context.Context, tokenA Address, chainA ChainID, tokenB Address, chainB ChainID) (bool, error)
	L2TokenEnabledForL1Token(ctx context.Context, l1Token Address, chain ChainID) (bool, error)
	TokenInfoFor(ctx context.Context, l1Token Address) (TokenInfo, error)
}

// CrossChainTransferClient tracks canonical-bridge transfers that have
// been submitted but not yet credited on the destination chain.
type CrossChainTransferClient interface {
	OutstandingCrossChainTransferAmount(ctx context.Context, relayer Address, chain ChainID, l1Token Address) (*big.Int, error)
	IncreaseOutstandingTransfer(relayer Address, l1Token Address, amount *big.Int, chain ChainID)
	Update(ctx context.Context, l1Tokens []Address) error
}

// TxResult is the outcome of a submitted transaction.
type TxResult struct {
	Hash string
}

// AdapterManager submits cross-chain transfers and wrap/unwrap
// transactions, honoring SimMode by simulating rather than broadcasting
// (spec.md §6).
type AdapterManager interface {
	SendTokenCrossChain(ctx context.Context, relayer Address, chain ChainID, l1Token Address, amount *big.Int, simMode bool) (TxResult, error)
	SetL1TokenApprovals(ctx context.Context, relayer Address, l1Tokens []Address) error

	// UnwrapWeth submits the C6 native-gas replenishment transaction:
	// unwrap amount of the L1 wrapped-native token back into native gas
	// on chain (spec.md §4.6). Distinct from WrapEthIfAboveThreshold,
	// which is the opposite-direction, opposite-condition companion
	// wrap cycle (spec.md §3's wrapEtherThreshold/wrapEtherTarget
	// globals) — see DESIGN.md.
	UnwrapWeth(ctx context.Context, relayer Address, chain ChainID, l1Token Address, amount *big.Int, simMode bool) (TxResult, error)

	// WrapEthIfAboveThreshold wraps native ETH into WETH when the
	// native balance is above threshold — the companion cycle to C6,
	// not itself driven by any Core method (spec.md §3, §6).
	WrapEthIfAboveThreshold(ctx context.Context, cfg WrapConfig, simMode bool) (TxResult, error)
}

// WrapConfig carries the companion wrap-cycle globals (spec.md §3); the
// wrap cycle itself is specified only at this interface.
type WrapConfig struct {
	WrapEtherThreshold *big.Int
	WrapEtherTarget    *big.Int
}

// RefundSet is one bundle's worth of per-(chain,token) refunds.
type RefundSet interface{}

// BundleDataClient reports settled and pending bundle refunds.
type BundleDataClient interface {
	PendingRefundsFromValidBundles(ctx context.Context, relayer Address) ([]RefundSet, error)
	NextBundleRefunds(ctx context.Context, relayer Address) ([]RefundSet, error)
	TotalRefund(sets []RefundSet, relayer Address, chain ChainID, token Address) *big.Int
}

// OnChainTokenReader reads a token balance straight from the chain (the
// ERC-20 contract itself), independent of TokenClient's locally tracked
// balance. The rebalance executor uses this, not TokenClient, to
// recheck for concurrent-instance drift (spec.md §1's "on-chain
// token/ERC-20 reading surface", §4.5 step 3) — TokenClient's own
// balance already reflects this process's same-cycle
// DecrementLocalBalance reservations, so reusing it for the recheck
// would mistake this process's own bookkeeping for external drift.
type OnChainTokenReader interface {
	BalanceOf(ctx context.Context, chain ChainID, token Address) (*big.Int, error)
}

// NativeBalanceReader reads a relayer's native gas balance on a chain,
// via whatever signer/provider handle the chain's RPC layer exposes
// (spec.md §6's "access to per-chain signer/provider handles").
type NativeBalanceReader interface {
	NativeBalance(ctx context.Context, chain ChainID) (*big.Int, error)
}
