package comet

import (
	"cometindex/pkg/bigint"

	"github.com/shopspring/decimal"
)

var (
	// BaseIndexScale scale of base supply/borrow indices (1e15)
	BaseIndexScale = bigint.MustFromString("1000000000000000")
	// FactorScale scale of utilization, rates and factors (1e18)
	FactorScale = bigint.MustFromString("1000000000000000000")
	// RewardFactorScale scale of reward multiplier and rescale factor (1e18)
	RewardFactorScale = bigint.MustFromString("1000000000000000000")
	// PriceFeedScale price feeds report 8 decimals
	PriceFeedScale = decimal.New(1, 8)

	SecondsPerYear = bigint.New(31536000)
	SecondsPerWeek = int64(604800)
	SecondsPerDay  = int64(86400)
	SecondsPerHour = int64(3600)
	DaysPerYear    = decimal.NewFromInt(365)
)

// FormatUnits divides a raw integer amount by 10^decimals.
func FormatUnits(value bigint.Int, decimals uint8) decimal.Decimal {
	return value.Decimal().Div(bigint.Pow10(decimals).Decimal())
}

// ParseUnits multiplies a decimal by 10^decimals and truncates to an integer.
func ParseUnits(value decimal.Decimal, decimals uint8) bigint.Int {
	scaled := value.Mul(bigint.Pow10(decimals).Decimal()).Truncate(0)
	v, _ := bigint.FromString(scaled.String())
	return v
}

// TokenValueUsd prices a raw token amount: amount / 10^decimals * priceUsd.
func TokenValueUsd(amount bigint.Int, decimals uint8, priceUsd decimal.Decimal) decimal.Decimal {
	return FormatUnits(amount, decimals).Mul(priceUsd)
}
