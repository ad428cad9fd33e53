package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// ProtocolID a single protocol row spans all markets.
const ProtocolID = "protocol"

// Protocol the singleton registry of comet deployments.
type Protocol struct {
	ID            string    `sql:"size:64;PRIMARY_KEY" json:"id"`
	Configurator  string    `sql:"size:42" json:"configurator"`
	ConfiguratorImplementation string `sql:"size:42" json:"configurator_implementation"`
	MarketCount   int64     `json:"market_count"`
	AccountingID  string    `sql:"size:64" json:"accounting_id"`
	Version       int64     `sql:"default:0" json:"version"`
	CreatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ProtocolAccounting USD sums over all market accountings, with
// USD-weighted average APRs.
type ProtocolAccounting struct {
	ID                     string          `sql:"size:64;PRIMARY_KEY" json:"id"`
	ProtocolID             string          `sql:"size:64" json:"protocol_id"`
	BlockNumber            uint64          `json:"block_number"`
	Timestamp              int64           `json:"timestamp"`
	TotalSupplyUsd         decimal.Decimal `sql:"type:decimal(32,8)" json:"total_supply_usd"`
	TotalBorrowUsd         decimal.Decimal `sql:"type:decimal(32,8)" json:"total_borrow_usd"`
	TotalBaseReservesUsd   decimal.Decimal `sql:"type:decimal(32,8)" json:"total_base_reserves_usd"`
	TotalCollateralBalanceUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"total_collateral_balance_usd"`
	TotalCollateralReservesUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"total_collateral_reserves_usd"`
	TotalReserveBalanceUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"total_reserve_balance_usd"`
	Utilization            decimal.Decimal `sql:"type:decimal(32,18)" json:"utilization"`
	AvgSupplyApr           decimal.Decimal `sql:"type:decimal(32,18)" json:"avg_supply_apr"`
	AvgBorrowApr           decimal.Decimal `sql:"type:decimal(32,18)" json:"avg_borrow_apr"`
	AvgRewardSupplyApr     decimal.Decimal `sql:"type:decimal(32,18)" json:"avg_reward_supply_apr"`
	AvgRewardBorrowApr     decimal.Decimal `sql:"type:decimal(32,18)" json:"avg_reward_borrow_apr"`
	AvgNetSupplyApr        decimal.Decimal `sql:"type:decimal(32,18)" json:"avg_net_supply_apr"`
	AvgNetBorrowApr        decimal.Decimal `sql:"type:decimal(32,18)" json:"avg_net_borrow_apr"`
	Collateralization      decimal.Decimal `sql:"type:decimal(32,18)" json:"collateralization"`
	Version                int64           `sql:"default:0" json:"version"`
	CreatedAt              time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IProtocolStore protocol store interface
type IProtocolStore interface {
	Save(ctx context.Context, tx *db.DB, protocol *Protocol) error
	Find(ctx context.Context) (*Protocol, error)
	Update(ctx context.Context, tx *db.DB, protocol *Protocol) error

	SaveAccounting(ctx context.Context, tx *db.DB, acc *ProtocolAccounting) error
	FindAccounting(ctx context.Context) (*ProtocolAccounting, error)
	UpdateAccounting(ctx context.Context, tx *db.DB, acc *ProtocolAccounting) error
}

// IProtocolService protocol service interface
type IProtocolService interface {
	// GetOrCreate loads the singleton protocol record.
	GetOrCreate(ctx context.Context, tx *db.DB, ev *Event) (*Protocol, error)
	// RegisterMarket bumps the market count when a proxy is first seen.
	RegisterMarket(ctx context.Context, tx *db.DB, ev *Event) error
	// UpdateAccounting re-aggregates all market accountings into the
	// protocol totals and cuts time snapshots.
	UpdateAccounting(ctx context.Context, tx *db.DB, ev *Event) error
}
