package comet

import (
	"cometindex/pkg/bigint"
	"cometindex/pkg/fixedpoint"

	"github.com/shopspring/decimal"
)

// ComputeApr computes the annual percent rate of one side of a market's
// kink interest curve. Rates and slopes are per-second quantities in
// FactorScale units; utilization and kink are plain fractions.
//
// Below the kink only the low slope contributes, above it the high slope
// picks up the excess utilization. No compounding, this is APR not APY.
func ComputeApr(utilization, kink decimal.Decimal, ratePerSecondBase, slopeLow, slopeHigh bigint.Int) decimal.Decimal {
	utilizationScaled := ParseUnits(utilization, 18)
	kinkScaled := ParseUnits(kink, 18)

	belowKink := slopeLow.Mul(fixedpoint.Min(utilizationScaled, kinkScaled)).Div(FactorScale)
	aboveKink := slopeHigh.Mul(fixedpoint.SafeSub(utilizationScaled, kinkScaled)).Div(FactorScale)

	perSecondRate := ratePerSecondBase.Add(belowKink).Add(aboveKink)

	return FormatUnits(perSecondRate.Mul(SecondsPerYear), 18)
}
