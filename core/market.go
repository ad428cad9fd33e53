package core

import (
	"context"
	"time"

	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Market one comet deployment, keyed by the lowercase proxy address.
type Market struct {
	ID                 string    `sql:"size:64;PRIMARY_KEY" json:"id"`
	CometProxy         string    `sql:"size:42;unique_index:idx_markets_proxy" json:"comet_proxy"`
	CreationBlock      uint64    `json:"creation_block"`
	LatestBlock        uint64    `json:"latest_block"`
	LatestTimestamp    int64     `json:"latest_timestamp"`
	Implementation     string    `sql:"size:42" json:"implementation"`
	Factory            string    `sql:"size:42" json:"factory"`
	ConfigurationID    string    `sql:"size:64" json:"configuration_id"`
	AccountingID       string    `sql:"size:64" json:"accounting_id"`
	Version            int64     `sql:"default:0" json:"version"`
	CreatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// MarketConfiguration governance-set parameters, refreshed from the chain
// whenever an event may have changed them.
type MarketConfiguration struct {
	ID                        string     `sql:"size:64;PRIMARY_KEY" json:"id"`
	MarketID                  string     `sql:"size:64;index:idx_market_configurations_market" json:"market_id"`
	BlockNumber               uint64     `json:"block_number"`
	LogIndex                  uint       `json:"log_index"`
	Governor                  string     `sql:"size:42" json:"governor"`
	PauseGuardian             string     `sql:"size:42" json:"pause_guardian"`
	ExtensionDelegate         string     `sql:"size:42" json:"extension_delegate"`
	BaseTokenID               string     `sql:"size:64" json:"base_token_id"`
	SupplyKink                bigint.Int `sql:"type:varchar(78)" json:"supply_kink"`
	SupplyPerSecondInterestRateBase     bigint.Int `sql:"type:varchar(78)" json:"supply_per_second_interest_rate_base"`
	SupplyPerSecondInterestRateSlopeLow bigint.Int `sql:"type:varchar(78)" json:"supply_per_second_interest_rate_slope_low"`
	SupplyPerSecondInterestRateSlopeHigh bigint.Int `sql:"type:varchar(78)" json:"supply_per_second_interest_rate_slope_high"`
	BorrowKink                bigint.Int `sql:"type:varchar(78)" json:"borrow_kink"`
	BorrowPerSecondInterestRateBase     bigint.Int `sql:"type:varchar(78)" json:"borrow_per_second_interest_rate_base"`
	BorrowPerSecondInterestRateSlopeLow bigint.Int `sql:"type:varchar(78)" json:"borrow_per_second_interest_rate_slope_low"`
	BorrowPerSecondInterestRateSlopeHigh bigint.Int `sql:"type:varchar(78)" json:"borrow_per_second_interest_rate_slope_high"`
	StoreFrontPriceFactor     bigint.Int `sql:"type:varchar(78)" json:"store_front_price_factor"`
	TrackingIndexScale        bigint.Int `sql:"type:varchar(78)" json:"tracking_index_scale"`
	BaseTrackingSupplySpeed   bigint.Int `sql:"type:varchar(78)" json:"base_tracking_supply_speed"`
	BaseTrackingBorrowSpeed   bigint.Int `sql:"type:varchar(78)" json:"base_tracking_borrow_speed"`
	BaseMinForRewards         bigint.Int `sql:"type:varchar(78)" json:"base_min_for_rewards"`
	BaseBorrowMin             bigint.Int `sql:"type:varchar(78)" json:"base_borrow_min"`
	TargetReserves            bigint.Int `sql:"type:varchar(78)" json:"target_reserves"`
	Version                   int64      `sql:"default:0" json:"version"`
	CreatedAt                 time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt                 time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// MarketRewardConfiguration normalized reward parameters for one market,
// read from the rewards contract.
type MarketRewardConfiguration struct {
	ID            string     `sql:"size:64;PRIMARY_KEY" json:"id"`
	MarketID      string     `sql:"size:64;index:idx_market_reward_configurations_market" json:"market_id"`
	TokenAddress  string     `sql:"size:42" json:"token_address"`
	RescaleFactor bigint.Int `sql:"type:varchar(78)" json:"rescale_factor"`
	ShouldUpscale bool       `json:"should_upscale"`
	Multiplier    bigint.Int `sql:"type:varchar(78)" json:"multiplier"`
	Version       int64      `sql:"default:0" json:"version"`
	CreatedAt     time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// MarketAccounting the rolling accounting state of one market. Raw fields
// mirror on-chain totals, derived fields are recomputed on every update.
type MarketAccounting struct {
	ID                      string          `sql:"size:64;PRIMARY_KEY" json:"id"`
	MarketID                string          `sql:"size:64;index:idx_market_accountings_market" json:"market_id"`
	BlockNumber             uint64          `json:"block_number"`
	Timestamp               int64           `json:"timestamp"`
	BaseSupplyIndex         bigint.Int      `sql:"type:varchar(78)" json:"base_supply_index"`
	BaseBorrowIndex         bigint.Int      `sql:"type:varchar(78)" json:"base_borrow_index"`
	TrackingSupplyIndex     bigint.Int      `sql:"type:varchar(78)" json:"tracking_supply_index"`
	TrackingBorrowIndex     bigint.Int      `sql:"type:varchar(78)" json:"tracking_borrow_index"`
	LastAccrualTime         int64           `json:"last_accrual_time"`
	TotalBasePrincipalSupply bigint.Int     `sql:"type:varchar(78)" json:"total_base_principal_supply"`
	TotalBasePrincipalBorrow bigint.Int     `sql:"type:varchar(78)" json:"total_base_principal_borrow"`
	BaseReserveBalance      bigint.Int      `sql:"type:varchar(78)" json:"base_reserve_balance"`
	TotalBaseSupply         bigint.Int      `sql:"type:varchar(78)" json:"total_base_supply"`
	TotalBaseBorrow         bigint.Int      `sql:"type:varchar(78)" json:"total_base_borrow"`
	TotalBaseSupplyUsd      decimal.Decimal `sql:"type:decimal(32,8)" json:"total_base_supply_usd"`
	TotalBaseBorrowUsd      decimal.Decimal `sql:"type:decimal(32,8)" json:"total_base_borrow_usd"`
	BaseReserveBalanceUsd   decimal.Decimal `sql:"type:decimal(32,8)" json:"base_reserve_balance_usd"`
	CollateralBalanceUsd    decimal.Decimal `sql:"type:decimal(32,8)" json:"collateral_balance_usd"`
	CollateralReservesBalanceUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"collateral_reserves_balance_usd"`
	TotalReserveBalanceUsd  decimal.Decimal `sql:"type:decimal(32,8)" json:"total_reserve_balance_usd"`
	Utilization             decimal.Decimal `sql:"type:decimal(32,18)" json:"utilization"`
	SupplyApr               decimal.Decimal `sql:"type:decimal(32,18)" json:"supply_apr"`
	BorrowApr               decimal.Decimal `sql:"type:decimal(32,18)" json:"borrow_apr"`
	RewardSupplyApr         decimal.Decimal `sql:"type:decimal(32,18)" json:"reward_supply_apr"`
	RewardBorrowApr         decimal.Decimal `sql:"type:decimal(32,18)" json:"reward_borrow_apr"`
	NetSupplyApr            decimal.Decimal `sql:"type:decimal(32,18)" json:"net_supply_apr"`
	NetBorrowApr            decimal.Decimal `sql:"type:decimal(32,18)" json:"net_borrow_apr"`
	Collateralization       decimal.Decimal `sql:"type:decimal(32,18)" json:"collateralization"`
	Version                 int64           `sql:"default:0" json:"version"`
	CreatedAt               time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt               time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IMarketStore market store interface
type IMarketStore interface {
	Save(ctx context.Context, tx *db.DB, market *Market) error
	Find(ctx context.Context, id string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
	Update(ctx context.Context, tx *db.DB, market *Market) error

	SaveConfiguration(ctx context.Context, tx *db.DB, cfg *MarketConfiguration) error
	FindConfiguration(ctx context.Context, id string) (*MarketConfiguration, error)
	UpdateConfiguration(ctx context.Context, tx *db.DB, cfg *MarketConfiguration) error

	SaveRewardConfiguration(ctx context.Context, tx *db.DB, cfg *MarketRewardConfiguration) error
	FindRewardConfiguration(ctx context.Context, id string) (*MarketRewardConfiguration, error)
	ListRewardConfigurations(ctx context.Context, marketID string) ([]*MarketRewardConfiguration, error)
	UpdateRewardConfiguration(ctx context.Context, tx *db.DB, cfg *MarketRewardConfiguration) error

	SaveAccounting(ctx context.Context, tx *db.DB, acc *MarketAccounting) error
	FindAccounting(ctx context.Context, marketID string) (*MarketAccounting, error)
	AllAccountings(ctx context.Context) ([]*MarketAccounting, error)
	UpdateAccounting(ctx context.Context, tx *db.DB, acc *MarketAccounting) error
}

// IMarketService market service interface
type IMarketService interface {
	// GetOrCreate loads the market for the comet proxy, creating the market,
	// its configuration, accounting and base token on first sight.
	GetOrCreate(ctx context.Context, tx *db.DB, proxy string, ev *Event) (*Market, error)
	// RefreshConfiguration re-reads governance parameters and collateral
	// assets from the chain and writes an audit snapshot when they changed.
	RefreshConfiguration(ctx context.Context, tx *db.DB, market *Market, ev *Event) error
	// UpdateAccounting re-reads on-chain totals, recomputes derived USD and
	// APR values, rolls them up into the protocol and cuts time snapshots.
	// Principal changes reported by the event's position updates roll the
	// ledger's own totals forward when the on-chain read is unavailable.
	UpdateAccounting(ctx context.Context, tx *db.DB, market *Market, ev *Event, changes ...*PrincipalChange) error
}
