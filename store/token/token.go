package token

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type tokenStore struct {
	db *db.DB
}

// New new token store
func New(db *db.DB) core.ITokenStore {
	return &tokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Token{})
		if err := tx.AutoMigrate(core.Token{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(core.BaseToken{}).AutoMigrate(core.BaseToken{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(core.CollateralToken{}).AutoMigrate(core.CollateralToken{}).Error; err != nil {
			return err
		}
		return nil
	})
}

func (s *tokenStore) Save(ctx context.Context, tx *db.DB, token *core.Token) error {
	return tx.Update().Create(token).Error
}

func (s *tokenStore) Find(ctx context.Context, id string) (*core.Token, error) {
	var token core.Token
	if err := s.db.View().Where("id=?", id).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *tokenStore) FindByAddress(ctx context.Context, address string) ([]*core.Token, error) {
	var tokens []*core.Token
	if err := s.db.View().Where("address=?", address).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *tokenStore) SaveBase(ctx context.Context, tx *db.DB, base *core.BaseToken) error {
	return tx.Update().Create(base).Error
}

func (s *tokenStore) FindBase(ctx context.Context, marketID string) (*core.BaseToken, error) {
	var base core.BaseToken
	if err := s.db.View().Where("market_id=?", marketID).First(&base).Error; err != nil {
		return nil, err
	}
	return &base, nil
}

// UpdateBase names every mutable column, struct updates would skip values
// legitimately returning to zero.
func (s *tokenStore) UpdateBase(ctx context.Context, tx *db.DB, base *core.BaseToken) error {
	version := base.Version
	base.Version++
	return tx.Update().Model(core.BaseToken{}).
		Where("id=? and version=?", base.ID, version).
		Updates(map[string]interface{}{
			"price_feed":       base.PriceFeed,
			"last_price_usd":   base.LastPriceUsd,
			"last_price_block": base.LastPriceBlock,
			"last_price_time":  base.LastPriceTime,
			"version":          base.Version,
		}).Error
}

func (s *tokenStore) SaveCollateral(ctx context.Context, tx *db.DB, col *core.CollateralToken) error {
	return tx.Update().Create(col).Error
}

func (s *tokenStore) FindCollateral(ctx context.Context, marketID, asset string) (*core.CollateralToken, error) {
	var col core.CollateralToken
	if err := s.db.View().Where("id=?", core.CollateralTokenID(marketID, asset)).First(&col).Error; err != nil {
		return nil, err
	}
	return &col, nil
}

func (s *tokenStore) ListCollateral(ctx context.Context, marketID string) ([]*core.CollateralToken, error) {
	var cols []*core.CollateralToken
	if err := s.db.View().Where("market_id=?", marketID).Find(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}

func (s *tokenStore) UpdateCollateral(ctx context.Context, tx *db.DB, col *core.CollateralToken) error {
	version := col.Version
	col.Version++
	return tx.Update().Model(core.CollateralToken{}).
		Where("id=? and version=?", col.ID, version).
		Updates(map[string]interface{}{
			"price_feed":                  col.PriceFeed,
			"borrow_collateral_factor":    col.BorrowCollateralFactor,
			"liquidate_collateral_factor": col.LiquidateCollateralFactor,
			"liquidation_factor":          col.LiquidationFactor,
			"supply_cap":                  col.SupplyCap,
			"last_price_usd":              col.LastPriceUsd,
			"last_price_block":            col.LastPriceBlock,
			"last_price_time":             col.LastPriceTime,
			"version":                     col.Version,
		}).Error
}
