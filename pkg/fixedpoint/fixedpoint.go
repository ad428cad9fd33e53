// Package fixedpoint implements the protocol's fixed-point conversions
// between principal and present value, and signed arithmetic over unsigned
// magnitudes.
//
// Negative balances are represented as (magnitude, isNegative) pairs rather
// than signed integers, mirroring the on-chain accounting: a position's sign
// decides which index governs it, so the sign bit has to survive every
// intermediate step.
package fixedpoint

import (
	"cometindex/pkg/bigint"

	"github.com/shopspring/decimal"
)

// PresentValue converts a principal amount to present value at the given
// index: principal * index / indexScale, floor division.
func PresentValue(principal, index, indexScale bigint.Int) bigint.Int {
	return principal.Mul(index).Div(indexScale)
}

// PrincipalValue converts a present value back to principal:
// presentValue * indexScale / index. A zero index marks a market that has
// not accrued yet and yields zero rather than an error.
func PrincipalValue(presentValue, index, indexScale bigint.Int) bigint.Int {
	return SafeDiv(presentValue.Mul(indexScale), index)
}

// SignedAdd adds two signed magnitudes. When the signs differ the larger
// magnitude wins both the resulting magnitude and the resulting sign, which
// is how a position crosses between borrower and supplier in one update.
func SignedAdd(aMag bigint.Int, aNeg bool, bMag bigint.Int, bNeg bool) (bigint.Int, bool) {
	if aNeg == bNeg {
		return aMag.Add(bMag), aNeg
	}
	if aNeg {
		// a negative, b positive
		if aMag.Cmp(bMag) > 0 {
			return aMag.Sub(bMag), true
		}
		return bMag.Sub(aMag), false
	}
	// a positive, b negative
	if bMag.Cmp(aMag) > 0 {
		return bMag.Sub(aMag), true
	}
	return aMag.Sub(bMag), false
}

// SafeDiv divides truncating toward zero, returning zero when the
// denominator is zero. The zero-guard is protocol convention (utilization of
// an empty market is zero), not error recovery.
func SafeDiv(num, den bigint.Int) bigint.Int {
	if den.IsZero() {
		return bigint.New(0)
	}
	return num.Div(den)
}

// SafeSub returns a - b clamped at zero.
func SafeSub(a, b bigint.Int) bigint.Int {
	if b.Cmp(a) > 0 {
		return bigint.New(0)
	}
	return a.Sub(b)
}

func Min(a, b bigint.Int) bigint.Int {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}

func Max(a, b bigint.Int) bigint.Int {
	if a.Cmp(b) > 0 {
		return a
	}
	return b
}

// SafeDivDecimal is the decimal counterpart of SafeDiv, used for the
// USD-denominated display ratios.
func SafeDivDecimal(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
