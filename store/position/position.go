package position

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Position{}).AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}
		return db.Update().Model(core.PositionAccounting{}).AutoMigrate(core.PositionAccounting{}).Error
	})
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	return tx.Update().Create(position).Error
}

func (s *positionStore) Find(ctx context.Context, id string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("id=?", id).First(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (s *positionStore) ListByMarket(ctx context.Context, marketID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("market_id=?", marketID).Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) ListByAccount(ctx context.Context, accountID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("account_id=?", accountID).Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// Update names every mutable column so values returning to zero or false,
// a fully repaid principal above all, still reach the row.
func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	position.Version++
	return tx.Update().Model(core.Position{}).
		Where("id=? and version=?", position.ID, version).
		Updates(map[string]interface{}{
			"base_principal":             position.BasePrincipal,
			"base_principal_is_negative": position.BasePrincipalIsNegative,
			"base_tracking_index":        position.BaseTrackingIndex,
			"base_tracking_accrued":      position.BaseTrackingAccrued,
			"version":                    position.Version,
		}).Error
}

func (s *positionStore) SaveAccounting(ctx context.Context, tx *db.DB, acc *core.PositionAccounting) error {
	return tx.Update().Create(acc).Error
}

func (s *positionStore) FindAccounting(ctx context.Context, positionID string) (*core.PositionAccounting, error) {
	var acc core.PositionAccounting
	if err := s.db.View().Where("position_id=? and id=position_id", positionID).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *positionStore) UpdateAccounting(ctx context.Context, tx *db.DB, acc *core.PositionAccounting) error {
	version := acc.Version
	acc.Version++
	return tx.Update().Model(core.PositionAccounting{}).
		Where("id=? and version=?", acc.ID, version).
		Updates(map[string]interface{}{
			"block_number":                   acc.BlockNumber,
			"timestamp":                      acc.Timestamp,
			"base_balance":                   acc.BaseBalance,
			"base_balance_is_negative":       acc.BaseBalanceIsNegative,
			"base_balance_usd":               acc.BaseBalanceUsd,
			"collateral_balance_usd":         acc.CollateralBalanceUsd,
			"cumulative_base_supplied":       acc.CumulativeBaseSupplied,
			"cumulative_base_supplied_usd":   acc.CumulativeBaseSuppliedUsd,
			"cumulative_base_withdrawn":      acc.CumulativeBaseWithdrawn,
			"cumulative_base_withdrawn_usd":  acc.CumulativeBaseWithdrawnUsd,
			"cumulative_base_absorbed":       acc.CumulativeBaseAbsorbed,
			"cumulative_gas_used_wei":        acc.CumulativeGasUsedWei,
			"cumulative_gas_used_usd":        acc.CumulativeGasUsedUsd,
			"cumulative_rewards_claimed":     acc.CumulativeRewardsClaimed,
			"cumulative_rewards_claimed_usd": acc.CumulativeRewardsClaimedUsd,
			"version":                        acc.Version,
		}).Error
}
