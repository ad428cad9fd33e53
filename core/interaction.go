package core

import (
	"context"
	"time"

	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Transaction envelope data shared by all interactions of one log.
type Transaction struct {
	ID          string     `sql:"size:96;PRIMARY_KEY" json:"id"`
	Hash        string     `sql:"size:66;index:idx_transactions_hash" json:"hash"`
	BlockNumber uint64     `json:"block_number"`
	LogIndex    uint       `json:"log_index"`
	Timestamp   int64      `json:"timestamp"`
	From        string     `sql:"size:42" json:"from"`
	To          string     `sql:"size:42" json:"to"`
	GasLimit    bigint.Int `sql:"type:varchar(78)" json:"gas_limit"`
	GasPrice    bigint.Int `sql:"type:varchar(78)" json:"gas_price"`
	GasUsed     bigint.Int `sql:"type:varchar(78)" json:"gas_used"`
	CreatedAt   time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Interaction one historical event record. A single table holds every
// kind; columns not meaningful for a kind stay at their zero value.
type Interaction struct {
	ID            string          `sql:"size:96;PRIMARY_KEY" json:"id"`
	TransactionID string          `sql:"size:96" json:"transaction_id"`
	MarketID      string          `sql:"size:64;index:idx_interactions_market" json:"market_id"`
	PositionID    string          `sql:"size:96;index:idx_interactions_position" json:"position_id"`
	Kind          string          `sql:"size:32;index:idx_interactions_kind" json:"kind"`
	From          string          `sql:"size:42" json:"from"`
	To            string          `sql:"size:42" json:"to"`
	Asset         string          `sql:"size:96" json:"asset"`
	Amount        bigint.Int      `sql:"type:varchar(78)" json:"amount"`
	AmountUsd     decimal.Decimal `sql:"type:decimal(32,8)" json:"amount_usd"`
	// second leg for liquidations and collateral purchases
	CounterAsset     string          `sql:"size:96" json:"counter_asset"`
	CounterAmount    bigint.Int      `sql:"type:varchar(78)" json:"counter_amount"`
	CounterAmountUsd decimal.Decimal `sql:"type:decimal(32,8)" json:"counter_amount_usd"`
	CreatedAt        time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Interaction kinds beyond those counted by usage tracking.
const (
	InteractionBuyCollateral    = "buy_collateral"
	InteractionWithdrawReserves = "withdraw_reserves"
	InteractionAbsorbCollateral = "absorb_collateral"
)

// IInteractionStore interaction store interface
type IInteractionStore interface {
	SaveTransaction(ctx context.Context, tx *db.DB, transaction *Transaction) error
	Save(ctx context.Context, tx *db.DB, interaction *Interaction) error
	ListByPosition(ctx context.Context, positionID string, limit int) ([]*Interaction, error)
	ListByMarket(ctx context.Context, marketID string, limit int) ([]*Interaction, error)
}
