package collateral

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type collateralStore struct {
	db *db.DB
}

// New new collateral balance store
func New(db *db.DB) core.ICollateralStore {
	return &collateralStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.MarketCollateralBalance{}).AutoMigrate(core.MarketCollateralBalance{}).Error; err != nil {
			return err
		}
		return db.Update().Model(core.PositionCollateralBalance{}).AutoMigrate(core.PositionCollateralBalance{}).Error
	})
}

func (s *collateralStore) SaveMarketBalance(ctx context.Context, tx *db.DB, bal *core.MarketCollateralBalance) error {
	return tx.Update().Create(bal).Error
}

func (s *collateralStore) FindMarketBalance(ctx context.Context, id string) (*core.MarketCollateralBalance, error) {
	var bal core.MarketCollateralBalance
	if err := s.db.View().Where("id=?", id).First(&bal).Error; err != nil {
		return nil, err
	}
	return &bal, nil
}

func (s *collateralStore) ListMarketBalances(ctx context.Context, marketID string) ([]*core.MarketCollateralBalance, error) {
	var bals []*core.MarketCollateralBalance
	if err := s.db.View().Where("market_id=?", marketID).Find(&bals).Error; err != nil {
		return nil, err
	}
	return bals, nil
}

// UpdateMarketBalance names every mutable column so a balance drained to
// zero still reaches the row.
func (s *collateralStore) UpdateMarketBalance(ctx context.Context, tx *db.DB, bal *core.MarketCollateralBalance) error {
	version := bal.Version
	bal.Version++
	return tx.Update().Model(core.MarketCollateralBalance{}).
		Where("id=? and version=?", bal.ID, version).
		Updates(map[string]interface{}{
			"block_number": bal.BlockNumber,
			"timestamp":    bal.Timestamp,
			"balance":      bal.Balance,
			"reserves":     bal.Reserves,
			"balance_usd":  bal.BalanceUsd,
			"reserves_usd": bal.ReservesUsd,
			"version":      bal.Version,
		}).Error
}

func (s *collateralStore) SavePositionBalance(ctx context.Context, tx *db.DB, bal *core.PositionCollateralBalance) error {
	return tx.Update().Create(bal).Error
}

func (s *collateralStore) FindPositionBalance(ctx context.Context, id string) (*core.PositionCollateralBalance, error) {
	var bal core.PositionCollateralBalance
	if err := s.db.View().Where("id=?", id).First(&bal).Error; err != nil {
		return nil, err
	}
	return &bal, nil
}

func (s *collateralStore) ListPositionBalances(ctx context.Context, positionID string) ([]*core.PositionCollateralBalance, error) {
	var bals []*core.PositionCollateralBalance
	if err := s.db.View().Where("position_id=?", positionID).Find(&bals).Error; err != nil {
		return nil, err
	}
	return bals, nil
}

func (s *collateralStore) UpdatePositionBalance(ctx context.Context, tx *db.DB, bal *core.PositionCollateralBalance) error {
	version := bal.Version
	bal.Version++
	return tx.Update().Model(core.PositionCollateralBalance{}).
		Where("id=? and version=?", bal.ID, version).
		Updates(map[string]interface{}{
			"block_number": bal.BlockNumber,
			"timestamp":    bal.Timestamp,
			"balance":      bal.Balance,
			"balance_usd":  bal.BalanceUsd,
			"version":      bal.Version,
		}).Error
}
