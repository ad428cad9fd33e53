package core

import (
	"context"
	"time"

	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/store/db"
)

// TokenKind discriminates the role a token record plays. The same ERC-20
// can appear once per role per market, each with its own id.
type TokenKind string

const (
	TokenKindBase       TokenKind = "base"
	TokenKindCollateral TokenKind = "collateral"
	TokenKindReward     TokenKind = "reward"
)

// Token immutable ERC-20 metadata, read from the chain once on first sight.
type Token struct {
	ID        string    `sql:"size:64;PRIMARY_KEY" json:"id"`
	Address   string    `sql:"size:42;index:idx_tokens_address" json:"address"`
	Kind      TokenKind `sql:"size:16" json:"kind"`
	Name      string    `sql:"size:128" json:"name"`
	Symbol    string    `sql:"size:32" json:"symbol"`
	Decimals  uint8     `json:"decimals"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BaseToken the borrowable asset of one market, with its rolling price.
type BaseToken struct {
	ID               string     `sql:"size:64;PRIMARY_KEY" json:"id"`
	MarketID         string     `sql:"size:64;index:idx_base_tokens_market" json:"market_id"`
	TokenID          string     `sql:"size:64" json:"token_id"`
	PriceFeed        string     `sql:"size:42" json:"price_feed"`
	LastPriceUsd     string     `sql:"type:varchar(64)" json:"last_price_usd"`
	LastPriceBlock   uint64     `json:"last_price_block"`
	LastPriceTime    int64      `json:"last_price_time"`
	Version          int64      `sql:"default:0" json:"version"`
	CreatedAt        time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CollateralToken one accepted collateral asset of one market, carrying the
// risk parameters from the market configuration.
type CollateralToken struct {
	ID                   string     `sql:"size:64;PRIMARY_KEY" json:"id"`
	MarketID             string     `sql:"size:64;index:idx_collateral_tokens_market" json:"market_id"`
	TokenID              string     `sql:"size:64" json:"token_id"`
	PriceFeed            string     `sql:"size:42" json:"price_feed"`
	BorrowCollateralFactor bigint.Int `sql:"type:varchar(78)" json:"borrow_collateral_factor"`
	LiquidateCollateralFactor bigint.Int `sql:"type:varchar(78)" json:"liquidate_collateral_factor"`
	LiquidationFactor    bigint.Int `sql:"type:varchar(78)" json:"liquidation_factor"`
	SupplyCap            bigint.Int `sql:"type:varchar(78)" json:"supply_cap"`
	LastPriceUsd         string     `sql:"type:varchar(64)" json:"last_price_usd"`
	LastPriceBlock       uint64     `json:"last_price_block"`
	LastPriceTime        int64      `json:"last_price_time"`
	Version              int64      `sql:"default:0" json:"version"`
	CreatedAt            time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TokenID composes the id of a token record for its role.
func TokenID(addr string, kind TokenKind) string {
	switch kind {
	case TokenKindCollateral:
		return ComposeID(addr, idTagCollateral)
	default:
		return addr
	}
}

// BaseTokenID one base token per market.
func BaseTokenID(marketID string) string {
	return marketID
}

// CollateralTokenID one collateral token per (market, asset).
func CollateralTokenID(marketID, asset string) string {
	return ComposeID(marketID, asset, idTagCollateral)
}

// ITokenStore token store interface
type ITokenStore interface {
	Save(ctx context.Context, tx *db.DB, token *Token) error
	Find(ctx context.Context, id string) (*Token, error)
	FindByAddress(ctx context.Context, address string) ([]*Token, error)
	SaveBase(ctx context.Context, tx *db.DB, base *BaseToken) error
	FindBase(ctx context.Context, marketID string) (*BaseToken, error)
	UpdateBase(ctx context.Context, tx *db.DB, base *BaseToken) error
	SaveCollateral(ctx context.Context, tx *db.DB, col *CollateralToken) error
	FindCollateral(ctx context.Context, marketID, asset string) (*CollateralToken, error)
	ListCollateral(ctx context.Context, marketID string) ([]*CollateralToken, error)
	UpdateCollateral(ctx context.Context, tx *db.DB, col *CollateralToken) error
}
