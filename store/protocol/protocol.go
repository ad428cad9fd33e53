package protocol

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type protocolStore struct {
	db *db.DB
}

// New new protocol store
func New(db *db.DB) core.IProtocolStore {
	return &protocolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Protocol{}).AutoMigrate(core.Protocol{}).Error; err != nil {
			return err
		}
		return db.Update().Model(core.ProtocolAccounting{}).AutoMigrate(core.ProtocolAccounting{}).Error
	})
}

func (s *protocolStore) Save(ctx context.Context, tx *db.DB, protocol *core.Protocol) error {
	return tx.Update().Create(protocol).Error
}

func (s *protocolStore) Find(ctx context.Context) (*core.Protocol, error) {
	var protocol core.Protocol
	if err := s.db.View().Where("id=?", core.ProtocolID).First(&protocol).Error; err != nil {
		return nil, err
	}
	return &protocol, nil
}

// Update names every mutable column, struct updates would skip values
// legitimately returning to zero.
func (s *protocolStore) Update(ctx context.Context, tx *db.DB, protocol *core.Protocol) error {
	version := protocol.Version
	protocol.Version++
	return tx.Update().Model(core.Protocol{}).
		Where("id=? and version=?", protocol.ID, version).
		Updates(map[string]interface{}{
			"configurator":                protocol.Configurator,
			"configurator_implementation": protocol.ConfiguratorImplementation,
			"market_count":                protocol.MarketCount,
			"version":                     protocol.Version,
		}).Error
}

func (s *protocolStore) SaveAccounting(ctx context.Context, tx *db.DB, acc *core.ProtocolAccounting) error {
	return tx.Update().Create(acc).Error
}

func (s *protocolStore) FindAccounting(ctx context.Context) (*core.ProtocolAccounting, error) {
	var acc core.ProtocolAccounting
	if err := s.db.View().Where("id=?", core.ProtocolID).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *protocolStore) UpdateAccounting(ctx context.Context, tx *db.DB, acc *core.ProtocolAccounting) error {
	version := acc.Version
	acc.Version++
	return tx.Update().Model(core.ProtocolAccounting{}).
		Where("id=? and version=?", acc.ID, version).
		Updates(map[string]interface{}{
			"block_number":                 acc.BlockNumber,
			"timestamp":                    acc.Timestamp,
			"total_supply_usd":             acc.TotalSupplyUsd,
			"total_borrow_usd":             acc.TotalBorrowUsd,
			"total_base_reserves_usd":      acc.TotalBaseReservesUsd,
			"total_collateral_balance_usd": acc.TotalCollateralBalanceUsd,
			"total_collateral_reserves_usd": acc.TotalCollateralReservesUsd,
			"total_reserve_balance_usd":     acc.TotalReserveBalanceUsd,
			"utilization":           acc.Utilization,
			"avg_supply_apr":        acc.AvgSupplyApr,
			"avg_borrow_apr":        acc.AvgBorrowApr,
			"avg_reward_supply_apr": acc.AvgRewardSupplyApr,
			"avg_reward_borrow_apr": acc.AvgRewardBorrowApr,
			"avg_net_supply_apr":    acc.AvgNetSupplyApr,
			"avg_net_borrow_apr":    acc.AvgNetBorrowApr,
			"collateralization":     acc.Collateralization,
			"version":               acc.Version,
		}).Error
}
