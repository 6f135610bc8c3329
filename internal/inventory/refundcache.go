// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inventory

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/luxfi/relay-inventory/internal/iface"
)

// refundCache implements C7: the first call within a cycle fetches, in
// parallel, refunds from already-validated pending bundles and from the
// next one-or-two upcoming bundles, then concatenates them; every caller
// for the rest of the cycle — concurrent or sequential — reuses that one
// result.
//
// golang.org/x/sync/singleflight collapses concurrent callers onto the
// one in-flight fetch (the "lazily-initialized future guarded by a
// boolean" spec.md §9's "Cached promise pattern" calls for); the result
// is then held in cachedSets/cachedErr, guarded by done, so calls after
// the fetch has completed don't re-invoke the bundle data client at all.
// golang.org/x/sync/errgroup runs the two underlying bundle-data-client
// calls concurrently within that one fetch.
type refundCache struct {
	group singleflight.Group

	mu         sync.Mutex
	done       bool
	cachedSets []iface.RefundSet
	cachedErr  error
}

func newRefundCache() *refundCache {
	return &refundCache{}
}

// reset invalidates the cache at a cycle boundary (spec.md §4 "reset per
// cycle").
func (r *refundCache) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = false
	r.cachedSets = nil
	r.cachedErr = nil
}

// fetch returns the concatenated refund sets for relayer, fetching them
// at most once since the last reset.
func (r *refundCache) fetch(ctx context.Context, bdc iface.BundleDataClient, relayer iface.Address) ([]iface.RefundSet, error) {
	r.mu.Lock()
	if r.done {
		sets, err := r.cachedSets, r.cachedErr
		r.mu.Unlock()
		return sets, err
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do("refunds", func() (interface{}, error) {
		// A caller that saw done == false above may only get here after
		// an earlier fetch has already completed; reuse its result.
		r.mu.Lock()
		if r.done {
			sets, err := r.cachedSets, r.cachedErr
			r.mu.Unlock()
			return sets, err
		}
		r.mu.Unlock()

		var valid, next []iface.RefundSet
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			valid, err = bdc.PendingRefundsFromValidBundles(gctx, relayer)
			return err
		})
		g.Go(func() error {
			var err error
			next, err = bdc.NextBundleRefunds(gctx, relayer)
			return err
		})
		fetchErr := g.Wait()

		out := make([]iface.RefundSet, 0, len(valid)+len(next))
		if fetchErr == nil {
			out = append(out, valid...)
			out = append(out, next...)
		}

		r.mu.Lock()
		r.done = true
		r.cachedSets = out
		r.cachedErr = fetchErr
		r.mu.Unlock()

		return out, fetchErr
	})
	if err != nil {
		return nil, err
	}
	return v.([]iface.RefundSet), nil
}
