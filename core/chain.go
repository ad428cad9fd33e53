package core

import (
	"context"

	"cometindex/pkg/bigint"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// TotalsBasic the comet totalsBasic() tuple.
type TotalsBasic struct {
	BaseSupplyIndex     bigint.Int
	BaseBorrowIndex     bigint.Int
	TrackingSupplyIndex bigint.Int
	TrackingBorrowIndex bigint.Int
	TotalSupplyBase     bigint.Int
	TotalBorrowBase     bigint.Int
	LastAccrualTime     int64
}

// TotalsCollateral the comet totalsCollateral(asset) tuple.
type TotalsCollateral struct {
	TotalSupplyAsset bigint.Int
	Reserved         bigint.Int
}

// AssetInfo one collateral asset's configuration on the comet contract.
type AssetInfo struct {
	Asset                     common.Address
	PriceFeed                 common.Address
	Scale                     bigint.Int
	BorrowCollateralFactor    bigint.Int
	LiquidateCollateralFactor bigint.Int
	LiquidationFactor         bigint.Int
	SupplyCap                 bigint.Int
}

// MarketConfigData governance parameters read from the configurator.
type MarketConfigData struct {
	Governor          common.Address
	PauseGuardian     common.Address
	ExtensionDelegate common.Address
	BaseToken         common.Address
	BaseTokenPriceFeed common.Address

	SupplyKink                           bigint.Int
	SupplyPerSecondInterestRateBase      bigint.Int
	SupplyPerSecondInterestRateSlopeLow  bigint.Int
	SupplyPerSecondInterestRateSlopeHigh bigint.Int
	BorrowKink                           bigint.Int
	BorrowPerSecondInterestRateBase      bigint.Int
	BorrowPerSecondInterestRateSlopeLow  bigint.Int
	BorrowPerSecondInterestRateSlopeHigh bigint.Int

	StoreFrontPriceFactor   bigint.Int
	TrackingIndexScale      bigint.Int
	BaseTrackingSupplySpeed bigint.Int
	BaseTrackingBorrowSpeed bigint.Int
	BaseMinForRewards       bigint.Int
	BaseBorrowMin           bigint.Int
	TargetReserves          bigint.Int

	AssetConfigs []AssetInfo
}

// UserBasic the comet userBasic(account) tuple. The principal is reported
// as magnitude plus sign.
type UserBasic struct {
	Principal           bigint.Int
	PrincipalIsNegative bool
	BaseTrackingIndex   bigint.Int
	BaseTrackingAccrued bigint.Int
}

// TokenInfo ERC-20 metadata.
type TokenInfo struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// RewardConfig reward parameters normalized across contract versions. A
// version without a multiplier reports the neutral scale.
type RewardConfig struct {
	Token         common.Address
	RescaleFactor bigint.Int
	ShouldUpscale bool
	Multiplier    bigint.Int
}

// ChainStateReader reads contract state at a block. Implementations issue
// archive-node calls pinned to the requested height.
type ChainStateReader interface {
	// Head reports the latest block number and its timestamp.
	Head(ctx context.Context) (uint64, int64, error)
	TotalsBasic(ctx context.Context, comet common.Address, block uint64) (*TotalsBasic, error)
	TotalsCollateral(ctx context.Context, comet, asset common.Address, block uint64) (*TotalsCollateral, error)
	MarketConfig(ctx context.Context, comet common.Address, block uint64) (*MarketConfigData, error)
	// Reserves may be negative when the protocol is underwater.
	Reserves(ctx context.Context, comet common.Address, block uint64) (bigint.Int, error)
	TokenInfo(ctx context.Context, token common.Address) (*TokenInfo, error)
	UserBasic(ctx context.Context, comet, account common.Address, block uint64) (*UserBasic, error)
	UserCollateral(ctx context.Context, comet, account, asset common.Address, block uint64) (bigint.Int, error)
	// Price calls comet.getPrice(feed), an 8 decimal answer.
	Price(ctx context.Context, comet, feed common.Address, block uint64) (bigint.Int, error)
	RewardConfig(ctx context.Context, rewards, comet common.Address, block uint64) (*RewardConfig, error)
}

// IPriceService prices assets in USD at a block, caching per (feed, block).
type IPriceService interface {
	// PriceFeedUsd prices a feed directly, assuming a USD quoted feed.
	PriceFeedUsd(ctx context.Context, market *Market, feed string, block uint64) (decimal.Decimal, error)
	// TokenPriceUsd prices a token record, routing through the market's
	// unit of account feed when the base feed is not USD quoted.
	TokenPriceUsd(ctx context.Context, market *Market, tokenID string, feed string, block uint64) (decimal.Decimal, error)
}
