// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"math/big"

	"github.com/luxfi/relay-inventory/internal/iface"
)

// fakeTokenClient is a minimal in-memory TokenClient, keyed by
// (chain, token) for balances and shortfalls. Matches the teacher's
// style of hand-written fakes over a mocking framework
// (warp/aggregator_test.go's mockSignatureGetter).
type fakeTokenClient struct {
	balances   map[chainToken]*big.Int
	shortfalls map[chainToken]*big.Int
}

type chainToken struct {
	chain iface.ChainID
	token iface.Address
}

func newFakeTokenClient() *fakeTokenClient {
	return &fakeTokenClient{
		balances:   make(map[chainToken]*big.Int),
		shortfalls: make(map[chainToken]*big.Int),
	}
}

func (f *fakeTokenClient) setBalance(chain iface.ChainID, token iface.Address, amt int64) {
	f.balances[chainToken{chain, token}] = big.NewInt(amt)
}

func (f *fakeTokenClient) setShortfall(chain iface.ChainID, token iface.Address, amt int64) {
	f.shortfalls[chainToken{chain, token}] = big.NewInt(amt)
}

func (f *fakeTokenClient) Balance(_ context.Context, chain iface.ChainID, token iface.Address) (*big.Int, error) {
	if v, ok := f.balances[chainToken{chain, token}]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeTokenClient) DecrementLocalBalance(chain iface.ChainID, token iface.Address, amt *big.Int) {
	key := chainToken{chain, token}
	cur, ok := f.balances[key]
	if !ok {
		cur = big.NewInt(0)
	}
	f.balances[key] = new(big.Int).Sub(cur, amt)
}

func (f *fakeTokenClient) ShortfallTotalRequirement(_ context.Context, chain iface.ChainID, token iface.Address) (*big.Int, error) {
	if v, ok := f.shortfalls[chainToken{chain, token}]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

// fakeHubPool maps each L1 token to itself as the L2 token on every
// chain (so distinct L1 tokens keep distinct L2 addresses, which is all
// the tests need) and reports whatever equivalence/enabled values the
// test configures.
type fakeHubPool struct {
	hub             iface.ChainID
	equivalent      bool
	l1Of            map[iface.Address]iface.Address // l2Token -> l1Token, defaults to identity
	tokenInfo       map[iface.Address]iface.TokenInfo
	enabledOverride map[chainToken]bool
}

func newFakeHubPool(hub iface.ChainID) *fakeHubPool {
	return &fakeHubPool{
		hub:        hub,
		equivalent: true,
		l1Of:       make(map[iface.Address]iface.Address),
		tokenInfo:  make(map[iface.Address]iface.TokenInfo),
	}
}

func (f *fakeHubPool) ChainID() iface.ChainID { return f.hub }

func (f *fakeHubPool) L2TokenFor(_ context.Context, l1Token iface.Address, _ iface.ChainID) (iface.Address, error) {
	return l1Token, nil
}

func (f *fakeHubPool) L1TokenFor(_ context.Context, l2Token iface.Address, _ iface.ChainID) (iface.Address, error) {
	if l1, ok := f.l1Of[l2Token]; ok {
		return l1, nil
	}
	return l2Token, nil
}

func (f *fakeHubPool) AreTokensEquivalent(_ context.Context, _ iface.Address, _ iface.ChainID, _ iface.Address, _ iface.ChainID) (bool, error) {
	return f.equivalent, nil
}

func (f *fakeHubPool) L2TokenEnabledForL1Token(_ context.Context, l1Token iface.Address, chain iface.ChainID) (bool, error) {
	if v, ok := f.enabledOverride[chainToken{chain, l1Token}]; ok {
		return v, nil
	}
	return true, nil
}

func (f *fakeHubPool) TokenInfoFor(_ context.Context, l1Token iface.Address) (iface.TokenInfo, error) {
	if info, ok := f.tokenInfo[l1Token]; ok {
		return info, nil
	}
	return iface.TokenInfo{Symbol: "TEST", Decimals: 18}, nil
}

// fakeTransferClient tracks outstanding cross-chain transfers in memory.
type fakeTransferClient struct {
	outstanding map[chainToken]*big.Int
}

func newFakeTransferClient() *fakeTransferClient {
	return &fakeTransferClient{outstanding: make(map[chainToken]*big.Int)}
}

func (f *fakeTransferClient) OutstandingCrossChainTransferAmount(_ context.Context, _ iface.Address, chain iface.ChainID, l1Token iface.Address) (*big.Int, error) {
	if v, ok := f.outstanding[chainToken{chain, l1Token}]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeTransferClient) IncreaseOutstandingTransfer(_ iface.Address, l1Token iface.Address, amount *big.Int, chain iface.ChainID) {
	key := chainToken{chain, l1Token}
	cur, ok := f.outstanding[key]
	if !ok {
		cur = big.NewInt(0)
	}
	f.outstanding[key] = new(big.Int).Add(cur, amount)
}

func (f *fakeTransferClient) Update(_ context.Context, _ []iface.Address) error { return nil }

// fakeAdapterManager records every submission it is asked to make and
// returns a deterministic fake transaction hash.
type fakeAdapterManager struct {
	sent     []sentTransfer
	unwraps  []sentUnwrap
	wraps    []iface.WrapConfig
	nextHash int
}

type sentTransfer struct {
	chain  iface.ChainID
	token  iface.Address
	amount *big.Int
}

type sentUnwrap struct {
	chain  iface.ChainID
	token  iface.Address
	amount *big.Int
}

func newFakeAdapterManager() *fakeAdapterManager {
	return &fakeAdapterManager{}
}

func (f *fakeAdapterManager) SendTokenCrossChain(_ context.Context, _ iface.Address, chain iface.ChainID, l1Token iface.Address, amount *big.Int, _ bool) (iface.TxResult, error) {
	f.sent = append(f.sent, sentTransfer{chain, l1Token, new(big.Int).Set(amount)})
	f.nextHash++
	return iface.TxResult{Hash: "0xfake"}, nil
}

func (f *fakeAdapterManager) SetL1TokenApprovals(_ context.Context, _ iface.Address, _ []iface.Address) error {
	return nil
}

func (f *fakeAdapterManager) UnwrapWeth(_ context.Context, _ iface.Address, chain iface.ChainID, l1Token iface.Address, amount *big.Int, _ bool) (iface.TxResult, error) {
	f.unwraps = append(f.unwraps, sentUnwrap{chain, l1Token, new(big.Int).Set(amount)})
	return iface.TxResult{Hash: "0xfakeunwrap"}, nil
}

func (f *fakeAdapterManager) WrapEthIfAboveThreshold(_ context.Context, cfg iface.WrapConfig, _ bool) (iface.TxResult, error) {
	f.wraps = append(f.wraps, cfg)
	return iface.TxResult{Hash: "0xfakewrap"}, nil
}

// fakeBundleData returns a fixed, test-configured set of refunds and
// counts how many times each fetch method was actually invoked, so
// tests can assert on refundCache's memoization behavior.
type fakeBundleData struct {
	valid []iface.RefundSet
	next  []iface.RefundSet
	totals map[chainToken]*big.Int

	validCalls int
	nextCalls  int
}

func newFakeBundleData() *fakeBundleData {
	return &fakeBundleData{totals: make(map[chainToken]*big.Int)}
}

func (f *fakeBundleData) setTotal(chain iface.ChainID, token iface.Address, amt int64) {
	f.totals[chainToken{chain, token}] = big.NewInt(amt)
}

func (f *fakeBundleData) PendingRefundsFromValidBundles(_ context.Context, _ iface.Address) ([]iface.RefundSet, error) {
	f.validCalls++
	return f.valid, nil
}

func (f *fakeBundleData) NextBundleRefunds(_ context.Context, _ iface.Address) ([]iface.RefundSet, error) {
	f.nextCalls++
	return f.next, nil
}

func (f *fakeBundleData) TotalRefund(_ []iface.RefundSet, _ iface.Address, chain iface.ChainID, token iface.Address) *big.Int {
	if v, ok := f.totals[chainToken{chain, token}]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

// fakeNativeBalanceReader returns a test-configured native balance per
// chain.
type fakeNativeBalanceReader struct {
	balances map[iface.ChainID]*big.Int
}

func newFakeNativeBalanceReader() *fakeNativeBalanceReader {
	return &fakeNativeBalanceReader{balances: make(map[iface.ChainID]*big.Int)}
}

func (f *fakeNativeBalanceReader) setBalance(chain iface.ChainID, amt int64) {
	f.balances[chain] = big.NewInt(amt)
}

func (f *fakeNativeBalanceReader) NativeBalance(_ context.Context, chain iface.ChainID) (*big.Int, error) {
	if v, ok := f.balances[chain]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

// fakeOnChainTokenReader is a standalone balance map distinct from
// fakeTokenClient, so tests can set up a true on-chain balance that
// DecrementLocalBalance (which only ever mutates fakeTokenClient) does
// not affect — matching the production split between TokenClient and
// OnChainTokenReader.
type fakeOnChainTokenReader struct {
	balances map[chainToken]*big.Int
}

func newFakeOnChainTokenReader() *fakeOnChainTokenReader {
	return &fakeOnChainTokenReader{balances: make(map[chainToken]*big.Int)}
}

func (f *fakeOnChainTokenReader) setBalance(chain iface.ChainID, token iface.Address, amt int64) {
	f.balances[chainToken{chain, token}] = big.NewInt(amt)
}

func (f *fakeOnChainTokenReader) BalanceOf(_ context.Context, chain iface.ChainID, token iface.Address) (*big.Int, error) {
	if v, ok := f.balances[chainToken{chain, token}]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

// testHarness bundles fakes for a full Core under test.
type testHarness struct {
	tokenClient   *fakeTokenClient
	hubPool       *fakeHubPool
	transferClnt  *fakeTransferClient
	adapterMgr    *fakeAdapterManager
	bundleData    *fakeBundleData
	nativeBalance *fakeNativeBalanceReader
	onChainReader *fakeOnChainTokenReader
}

func newTestHarness(hub iface.ChainID) *testHarness {
	return &testHarness{
		tokenClient:   newFakeTokenClient(),
		hubPool:       newFakeHubPool(hub),
		transferClnt:  newFakeTransferClient(),
		adapterMgr:    newFakeAdapterManager(),
		bundleData:    newFakeBundleData(),
		nativeBalance: newFakeNativeBalanceReader(),
		onChainReader: newFakeOnChainTokenReader(),
	}
}

func (h *testHarness) newCore(cfg *Config) *Core {
	return New(cfg, Collaborators{
		TokenClient:              h.tokenClient,
		HubPoolClient:            h.hubPool,
		CrossChainTransferClient: h.transferClnt,
		AdapterManager:           h.adapterMgr,
		BundleDataClient:         h.bundleData,
		NativeBalanceReader:      h.nativeBalance,
		OnChainTokenReader:       h.onChainReader,
		Relayer:                  testRelayer,
	}, nil)
}

var testRelayer = iface.Address{1}

func addr(b byte) iface.Address {
	var a iface.Address
	a[19] = b
	return a
}
