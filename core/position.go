package core

import (
	"context"
	"time"

	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Account one address seen across all markets.
type Account struct {
	ID           string    `sql:"size:64;PRIMARY_KEY" json:"id"`
	Address      string    `sql:"size:42;unique_index:idx_accounts_address" json:"address"`
	CreationBlock uint64   `json:"creation_block"`
	Version      int64     `sql:"default:0" json:"version"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Position the base-asset position of one account in one market. The
// principal is signed: positive means supplied, negative means borrowed.
// Magnitude and sign are stored apart so the magnitude stays an unsigned
// integer column.
type Position struct {
	ID                   string     `sql:"size:96;PRIMARY_KEY" json:"id"`
	MarketID             string     `sql:"size:64;index:idx_positions_market" json:"market_id"`
	AccountID            string     `sql:"size:64;index:idx_positions_account" json:"account_id"`
	CreationBlock        uint64     `json:"creation_block"`
	BasePrincipal        bigint.Int `sql:"type:varchar(78)" json:"base_principal"`
	BasePrincipalIsNegative bool    `json:"base_principal_is_negative"`
	BaseTrackingIndex    bigint.Int `sql:"type:varchar(78)" json:"base_tracking_index"`
	BaseTrackingAccrued  bigint.Int `sql:"type:varchar(78)" json:"base_tracking_accrued"`
	AccountingID         string     `sql:"size:96" json:"accounting_id"`
	Version              int64      `sql:"default:0" json:"version"`
	CreatedAt            time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PositionAccounting derived balances plus lifetime counters for one
// position.
type PositionAccounting struct {
	ID                      string          `sql:"size:96;PRIMARY_KEY" json:"id"`
	PositionID              string          `sql:"size:96;index:idx_position_accountings_position" json:"position_id"`
	BlockNumber             uint64          `json:"block_number"`
	Timestamp               int64           `json:"timestamp"`
	BaseBalance             bigint.Int      `sql:"type:varchar(78)" json:"base_balance"`
	BaseBalanceIsNegative   bool            `json:"base_balance_is_negative"`
	BaseBalanceUsd          decimal.Decimal `sql:"type:decimal(32,8)" json:"base_balance_usd"`
	CollateralBalanceUsd    decimal.Decimal `sql:"type:decimal(32,8)" json:"collateral_balance_usd"`
	CumulativeBaseSupplied  bigint.Int      `sql:"type:varchar(78)" json:"cumulative_base_supplied"`
	CumulativeBaseSuppliedUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"cumulative_base_supplied_usd"`
	CumulativeBaseWithdrawn bigint.Int      `sql:"type:varchar(78)" json:"cumulative_base_withdrawn"`
	CumulativeBaseWithdrawnUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"cumulative_base_withdrawn_usd"`
	CumulativeBaseAbsorbed  bigint.Int      `sql:"type:varchar(78)" json:"cumulative_base_absorbed"`
	CumulativeGasUsedWei    bigint.Int      `sql:"type:varchar(78)" json:"cumulative_gas_used_wei"`
	CumulativeGasUsedUsd    decimal.Decimal `sql:"type:decimal(32,8)" json:"cumulative_gas_used_usd"`
	CumulativeRewardsClaimed bigint.Int     `sql:"type:varchar(78)" json:"cumulative_rewards_claimed"`
	CumulativeRewardsClaimedUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"cumulative_rewards_claimed_usd"`
	Version                 int64           `sql:"default:0" json:"version"`
	CreatedAt               time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt               time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PrincipalChange reports how a principal update split across the supply
// and borrow legs, for rolling up into market totals.
type PrincipalChange struct {
	SupplyChange      bigint.Int
	SupplyChangeIsNeg bool
	BorrowChange      bigint.Int
	BorrowChangeIsNeg bool
}

// PositionID one position per (market, account).
func PositionID(marketID, accountID string) string {
	return ComposeID(marketID, accountID)
}

// IAccountStore account store interface
type IAccountStore interface {
	Save(ctx context.Context, tx *db.DB, account *Account) error
	Find(ctx context.Context, id string) (*Account, error)
}

// IPositionStore position store interface
type IPositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, id string) (*Position, error)
	ListByMarket(ctx context.Context, marketID string) ([]*Position, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Position, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error

	SaveAccounting(ctx context.Context, tx *db.DB, acc *PositionAccounting) error
	FindAccounting(ctx context.Context, positionID string) (*PositionAccounting, error)
	UpdateAccounting(ctx context.Context, tx *db.DB, acc *PositionAccounting) error
}

// IPositionService position service interface
type IPositionService interface {
	// GetOrCreate loads the position for (market, account), creating the
	// account, position and accounting records on first sight.
	GetOrCreate(ctx context.Context, tx *db.DB, market *Market, addr string, ev *Event) (*Position, error)
	// UpdatePrincipal re-reads the position's on-chain basics, converts the
	// old principal through present value, applies the new one, and reports
	// the supply-leg and borrow-leg deltas.
	UpdatePrincipal(ctx context.Context, tx *db.DB, market *Market, position *Position, ev *Event) (*PrincipalChange, error)
	// UpdateAccounting refreshes derived balances and bumps the lifetime
	// counters for the interaction that touched the position.
	UpdateAccounting(ctx context.Context, tx *db.DB, market *Market, position *Position, ev *Event) error
	// RefreshCollateral replaces the position's balance of one collateral
	// asset with the authoritative on-chain value.
	RefreshCollateral(ctx context.Context, tx *db.DB, market *Market, position *Position, asset string, ev *Event) error
	// AttributeRewardClaim credits a reward claim to the single position
	// whose tracking index matches the market's, returning that position.
	// Zero or multiple matches leave the claim unattributed and return nil.
	AttributeRewardClaim(ctx context.Context, tx *db.DB, ev *Event) (*Position, error)
}
