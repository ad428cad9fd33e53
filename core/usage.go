package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// InteractionKind the base-asset interactions counted by usage tracking.
type InteractionKind string

const (
	InteractionSupplyBase         InteractionKind = "supply_base"
	InteractionWithdrawBase       InteractionKind = "withdraw_base"
	InteractionLiquidation        InteractionKind = "liquidation"
	InteractionSupplyCollateral   InteractionKind = "supply_collateral"
	InteractionWithdrawCollateral InteractionKind = "withdraw_collateral"
	InteractionTransferCollateral InteractionKind = "transfer_collateral"
	InteractionTransferBase       InteractionKind = "transfer_base"
	InteractionRewardClaim        InteractionKind = "reward_claim"
)

// Usage interaction counters for one scope. Six scopes exist per market
// event: protocol and market, each cumulative, hourly and daily.
type Usage struct {
	ID                       string    `sql:"size:96;PRIMARY_KEY" json:"id"`
	UniqueUsersCount         int64     `json:"unique_users_count"`
	InteractionCount         int64     `json:"interaction_count"`
	SupplyBaseCount          int64     `json:"supply_base_count"`
	WithdrawBaseCount        int64     `json:"withdraw_base_count"`
	LiquidationCount         int64     `json:"liquidation_count"`
	SupplyCollateralCount    int64     `json:"supply_collateral_count"`
	WithdrawCollateralCount  int64     `json:"withdraw_collateral_count"`
	TransferCollateralCount  int64     `json:"transfer_collateral_count"`
	TransferBaseCount        int64     `json:"transfer_base_count"`
	RewardClaimCount         int64     `json:"reward_claim_count"`
	Version                  int64     `sql:"default:0" json:"version"`
	CreatedAt                time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt                time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ActiveAccount marks an address as already counted in one usage scope.
// Its presence is the whole record.
type ActiveAccount struct {
	ID        string    `sql:"size:160;PRIMARY_KEY" json:"id"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Usage scope id prefixes.
const (
	usageScopeProtocol = "protocol"
)

// ProtocolUsageID cumulative protocol scope.
func ProtocolUsageID() string { return usageScopeProtocol }

// ProtocolHourlyUsageID hourly protocol scope.
func ProtocolHourlyUsageID(hour int64) string {
	return BucketID(usageScopeProtocol+":hour", hour)
}

// ProtocolDailyUsageID daily protocol scope.
func ProtocolDailyUsageID(day int64) string {
	return BucketID(usageScopeProtocol+":day", day)
}

// MarketUsageID cumulative market scope.
func MarketUsageID(marketID string) string { return marketID }

// MarketHourlyUsageID hourly market scope.
func MarketHourlyUsageID(marketID string, hour int64) string {
	return BucketID(marketID+":hour", hour)
}

// MarketDailyUsageID daily market scope.
func MarketDailyUsageID(marketID string, day int64) string {
	return BucketID(marketID+":day", day)
}

// ActiveAccountID marks (scope, address).
func ActiveAccountID(usageID, address string) string {
	return ComposeID(usageID, address)
}

// IUsageStore usage store interface
type IUsageStore interface {
	Save(ctx context.Context, tx *db.DB, usage *Usage) error
	Find(ctx context.Context, id string) (*Usage, error)
	Update(ctx context.Context, tx *db.DB, usage *Usage) error

	// MarkActive records the marker if absent and reports whether it was new.
	MarkActive(ctx context.Context, tx *db.DB, id string) (bool, error)
}

// IUsageService usage service interface
type IUsageService interface {
	// Record counts one interaction by an address against all six scopes of
	// the market.
	Record(ctx context.Context, tx *db.DB, marketID, address string, kind InteractionKind, ev *Event) error
}
