package comet

import (
	"cometindex/pkg/bigint"
	"cometindex/pkg/fixedpoint"

	"github.com/shopspring/decimal"
)

// RewardTokensPerDay converts a tracking speed into reward tokens emitted
// per day, in raw token units. The multiplier comes from the rewards
// contract; v1 deployments had none, callers pass the neutral
// RewardFactorScale for those.
func RewardTokensPerDay(trackingSpeed bigint.Int, rewardTokenDecimals uint8, multiplier bigint.Int) bigint.Int {
	return trackingSpeed.
		Mul(bigint.Pow10(rewardTokenDecimals)).
		Mul(bigint.New(SecondsPerDay)).
		Mul(multiplier).
		Div(RewardFactorScale).
		Div(BaseIndexScale)
}

// RewardApr annualizes the reward yield of one side of a market.
//
// The yield is rewardValuePerDayUsd / totalBalanceUsd, zero unless the total
// balance clears baseMinForRewards: a near-empty market would otherwise show
// an astronomic reward APR.
func RewardApr(
	trackingSpeed bigint.Int,
	rewardTokenDecimals uint8,
	multiplier bigint.Int,
	rewardTokenPriceUsd decimal.Decimal,
	totalBalance bigint.Int,
	totalBalanceUsd decimal.Decimal,
	baseMinForRewards bigint.Int,
) decimal.Decimal {
	if totalBalance.Cmp(baseMinForRewards) <= 0 {
		return decimal.Zero
	}

	tokensPerDay := RewardTokensPerDay(trackingSpeed, rewardTokenDecimals, multiplier)
	valuePerDayUsd := TokenValueUsd(tokensPerDay, rewardTokenDecimals, rewardTokenPriceUsd)
	yieldPerDay := fixedpoint.SafeDivDecimal(valuePerDayUsd, totalBalanceUsd)

	return yieldPerDay.Mul(DaysPerYear)
}
