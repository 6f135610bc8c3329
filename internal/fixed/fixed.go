// (c) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fixed implements the signed fixed-point scalar arithmetic used
// throughout the inventory core: percentages and allocation fractions are
// stored as integers scaled by Scalar, with scalar multiplication always
// preceding division so that precision survives the truncating integer
// divide.
//
// holiman/uint256 (the teacher's 256-bit integer type) is unsigned only and
// cannot represent the negative intermediates this package's callers rely
// on (a chain that has exhausted itself produces a negative virtual
// balance, see spec.md §4.3 and §9); math/big's signed Int is used instead.
package fixed

import "math/big"

// Scalar is the implicit fixed-point denominator: S = 10^18.
var Scalar = big.NewInt(1_000_000_000_000_000_000)

// FromInt64 lifts a plain integer amount into the fixed-point domain
// unscaled — amounts (balances) are not scaled, only percentages are.
func FromInt64(v int64) *big.Int {
	return big.NewInt(v)
}

// MulDiv computes (a * b) / Scalar, truncating toward zero, preserving
// precision by multiplying before dividing. This is the percentage-times-
// amount pattern used for rebalance and unwrap amounts.
func MulDiv(a, b *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, Scalar)
}

// Pct computes numerator * Scalar / denominator, truncating toward zero.
// Returns zero if denominator is zero — callers (currentAllocPct,
// chainDistribution, selector expectedPct) all treat a zero cumulative
// balance as a defined zero rather than a division error.
func Pct(numerator, denominator *big.Int) *big.Int {
	if denominator.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(numerator, Scalar)
	return out.Quo(out, denominator)
}

// LessEq reports whether a <= b.
func LessEq(a, b *big.Int) bool {
	return a.Cmp(b) <= 0
}

// Less reports whether a < b.
func Less(a, b *big.Int) bool {
	return a.Cmp(b) < 0
}

// Sub returns a - b as a new *big.Int, leaving a and b untouched.
func Sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

// Add returns a + b as a new *big.Int, leaving a and b untouched.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Zero returns a fresh zero-valued *big.Int.
func Zero() *big.Int {
	return new(big.Int)
}

// IsPositive reports whether v is strictly greater than zero.
func IsPositive(v *big.Int) bool {
	return v.Sign() > 0
}
