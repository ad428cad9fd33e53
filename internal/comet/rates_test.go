package comet

import (
	"testing"

	"cometindex/pkg/bigint"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeAprBelowKink(t *testing.T) {
	utilization := decimal.NewFromFloat(0.5)
	kink := decimal.NewFromFloat(0.8)
	base := bigint.New(0)
	slopeLow := bigint.New(10)
	slopeHigh := bigint.New(100)

	apr := ComputeApr(utilization, kink, base, slopeLow, slopeHigh)

	// utilization < kink, only the low slope contributes
	want := ComputeApr(utilization, kink, base, slopeLow, bigint.New(0))
	assert.True(t, apr.Equal(want), "high slope must not contribute below the kink, got %s want %s", apr, want)
	assert.True(t, apr.IsPositive())
}

func TestComputeAprAboveKink(t *testing.T) {
	utilization := decimal.NewFromFloat(0.9)
	kink := decimal.NewFromFloat(0.8)
	base := bigint.New(0)
	slopeLow := bigint.New(10)
	slopeHigh := bigint.New(100)

	apr := ComputeApr(utilization, kink, base, slopeLow, slopeHigh)
	lowOnly := ComputeApr(kink, kink, base, slopeLow, bigint.New(0))

	// the low slope saturates at the kink, the high slope covers the excess
	assert.True(t, apr.GreaterThan(lowOnly))
}

func TestComputeAprZeroUtilization(t *testing.T) {
	apr := ComputeApr(decimal.Zero, decimal.NewFromFloat(0.8), bigint.New(0), bigint.New(10), bigint.New(100))
	assert.True(t, apr.IsZero())
}

func TestComputeAprBaseOnly(t *testing.T) {
	// base rate of 1e9 per second at 1e18 scale ~ 3.15% APR
	base := bigint.New(1000000000)
	apr := ComputeApr(decimal.Zero, decimal.NewFromFloat(0.8), base, bigint.New(0), bigint.New(0))
	assert.Equal(t, "0.031536", apr.String())
}

func TestFormatParseUnits(t *testing.T) {
	v := bigint.MustFromString("1500000")
	assert.Equal(t, "1.5", FormatUnits(v, 6).String())

	back := ParseUnits(decimal.NewFromFloat(1.5), 6)
	assert.Equal(t, "1500000", back.String())
}

func TestTokenValueUsd(t *testing.T) {
	amount := bigint.MustFromString("2500000000") // 2500 USDC at 6 decimals
	got := TokenValueUsd(amount, 6, decimal.NewFromFloat(0.999))
	assert.Equal(t, "2497.5", got.String())
}
