package core

import (
	"context"
	"time"

	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// MarketCollateralBalance the market-wide total of one collateral asset.
type MarketCollateralBalance struct {
	ID            string          `sql:"size:96;PRIMARY_KEY" json:"id"`
	MarketID      string          `sql:"size:64;index:idx_market_collateral_balances_market" json:"market_id"`
	CollateralTokenID string      `sql:"size:96" json:"collateral_token_id"`
	BlockNumber   uint64          `json:"block_number"`
	Timestamp     int64           `json:"timestamp"`
	Balance       bigint.Int      `sql:"type:varchar(78)" json:"balance"`
	Reserves      bigint.Int      `sql:"type:varchar(78)" json:"reserves"`
	BalanceUsd    decimal.Decimal `sql:"type:decimal(32,8)" json:"balance_usd"`
	ReservesUsd   decimal.Decimal `sql:"type:decimal(32,8)" json:"reserves_usd"`
	Version       int64           `sql:"default:0" json:"version"`
	CreatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PositionCollateralBalance one account's balance of one collateral asset
// in one market.
type PositionCollateralBalance struct {
	ID           string          `sql:"size:128;PRIMARY_KEY" json:"id"`
	PositionID   string          `sql:"size:96;index:idx_position_collateral_balances_position" json:"position_id"`
	CollateralTokenID string     `sql:"size:96" json:"collateral_token_id"`
	BlockNumber  uint64          `json:"block_number"`
	Timestamp    int64           `json:"timestamp"`
	Balance      bigint.Int      `sql:"type:varchar(78)" json:"balance"`
	BalanceUsd   decimal.Decimal `sql:"type:decimal(32,8)" json:"balance_usd"`
	Version      int64           `sql:"default:0" json:"version"`
	CreatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// MarketCollateralBalanceID one record per (market, asset).
func MarketCollateralBalanceID(marketID, asset string) string {
	return ComposeID(marketID, asset, idTagBalance)
}

// PositionCollateralBalanceID one record per (position, asset).
func PositionCollateralBalanceID(positionID, asset string) string {
	return ComposeID(positionID, asset, idTagBalance)
}

// ICollateralStore collateral balance store interface
type ICollateralStore interface {
	SaveMarketBalance(ctx context.Context, tx *db.DB, bal *MarketCollateralBalance) error
	FindMarketBalance(ctx context.Context, id string) (*MarketCollateralBalance, error)
	ListMarketBalances(ctx context.Context, marketID string) ([]*MarketCollateralBalance, error)
	UpdateMarketBalance(ctx context.Context, tx *db.DB, bal *MarketCollateralBalance) error

	SavePositionBalance(ctx context.Context, tx *db.DB, bal *PositionCollateralBalance) error
	FindPositionBalance(ctx context.Context, id string) (*PositionCollateralBalance, error)
	ListPositionBalances(ctx context.Context, positionID string) ([]*PositionCollateralBalance, error)
	UpdatePositionBalance(ctx context.Context, tx *db.DB, bal *PositionCollateralBalance) error
}
