// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/relay-inventory/internal/iface"
)

// ErrTokenMismatch is returned by DetermineRefundChainID when the fill's
// input and output tokens are not declared equivalent by the hub-pool
// client (spec.md §4.3 step 2). It is fatal to the selection, not to the
// process.
var ErrTokenMismatch = errors.New("inventory: input and output tokens are not equivalent")

// ErrMissingTokenInfo is returned when the hub-pool client has no
// metadata for a managed L1 token; fatal to the rebalance/unwrap cycle
// that encounters it, since it indicates broken configuration
// (spec.md §7).
var ErrMissingTokenInfo = errors.New("inventory: hub-pool client has no token info for a managed L1 token")

// BalanceChangedError describes the case (spec.md §4.5 step 3) where the
// on-chain balance recheck differs from the planner's snapshot. The
// executor builds one and attaches it to its "balance changed" warning
// log; it is not returned to callers.
type BalanceChangedError struct {
	Chain    iface.ChainID
	L1Token  iface.Address
	Snapshot *big.Int
	Actual   *big.Int
}

func (e *BalanceChangedError) Error() string {
	return fmt.Sprintf("inventory: hub balance for %s changed on chain %d: snapshot %s, actual %s",
		e.L1Token, e.Chain, e.Snapshot, e.Actual)
}
