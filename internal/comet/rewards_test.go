package comet

import (
	"testing"

	"cometindex/pkg/bigint"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRewardTokensPerDay(t *testing.T) {
	// trackingSpeed in BaseIndexScale units: 0.005 COMP/sec
	speed := bigint.MustFromString("5000000000000")
	got := RewardTokensPerDay(speed, 18, RewardFactorScale)

	// 0.005 * 86400 = 432 COMP/day
	assert.Equal(t, "432000000000000000000", got.String())
}

func TestRewardAprBelowMinimum(t *testing.T) {
	speed := bigint.MustFromString("5000000000000")
	totalBalance := bigint.MustFromString("999")
	baseMin := bigint.MustFromString("1000000")

	apr := RewardApr(speed, 18, RewardFactorScale, decimal.NewFromInt(50), totalBalance, decimal.NewFromInt(1), baseMin)
	assert.True(t, apr.IsZero(), "below baseMinForRewards the reward APR is zero regardless of speed")
}

func TestRewardApr(t *testing.T) {
	speed := bigint.MustFromString("5000000000000") // 432 tokens/day
	totalBalance := bigint.MustFromString("100000000000000")
	totalBalanceUsd := decimal.NewFromInt(100000000) // 100M USD
	baseMin := bigint.MustFromString("1000000")

	apr := RewardApr(speed, 18, RewardFactorScale, decimal.NewFromInt(50), totalBalance, totalBalanceUsd, baseMin)

	// 432 * 50 / 100M per day, * 365
	want := decimal.NewFromInt(432).Mul(decimal.NewFromInt(50)).
		Div(totalBalanceUsd).
		Mul(DaysPerYear)
	assert.True(t, apr.Equal(want), "got %s want %s", apr, want)
}

func TestRewardAprZeroBalanceUsd(t *testing.T) {
	speed := bigint.MustFromString("5000000000000")
	totalBalance := bigint.MustFromString("2000000")
	baseMin := bigint.MustFromString("1000000")

	apr := RewardApr(speed, 18, RewardFactorScale, decimal.NewFromInt(50), totalBalance, decimal.Zero, baseMin)
	assert.True(t, apr.IsZero())
}
