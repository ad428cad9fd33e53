package market

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		models := []interface{}{
			core.Market{},
			core.MarketConfiguration{},
			core.MarketRewardConfiguration{},
			core.MarketAccounting{},
		}
		for _, m := range models {
			if err := db.Update().Model(m).AutoMigrate(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *marketStore) Save(ctx context.Context, tx *db.DB, market *core.Market) error {
	return tx.Update().Create(market).Error
}

func (s *marketStore) Find(ctx context.Context, id string) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where("id=?", id).First(&market).Error; err != nil {
		return nil, err
	}
	return &market, nil
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

// Update names every mutable column, struct updates would skip values
// legitimately returning to zero.
func (s *marketStore) Update(ctx context.Context, tx *db.DB, market *core.Market) error {
	version := market.Version
	market.Version++
	return tx.Update().Model(core.Market{}).
		Where("id=? and version=?", market.ID, version).
		Updates(map[string]interface{}{
			"latest_block":     market.LatestBlock,
			"latest_timestamp": market.LatestTimestamp,
			"implementation":   market.Implementation,
			"factory":          market.Factory,
			"version":          market.Version,
		}).Error
}

func (s *marketStore) SaveConfiguration(ctx context.Context, tx *db.DB, cfg *core.MarketConfiguration) error {
	return tx.Update().Create(cfg).Error
}

func (s *marketStore) FindConfiguration(ctx context.Context, id string) (*core.MarketConfiguration, error) {
	var cfg core.MarketConfiguration
	if err := s.db.View().Where("id=?", id).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *marketStore) UpdateConfiguration(ctx context.Context, tx *db.DB, cfg *core.MarketConfiguration) error {
	version := cfg.Version
	cfg.Version++
	return tx.Update().Model(core.MarketConfiguration{}).
		Where("id=? and version=?", cfg.ID, version).
		Updates(map[string]interface{}{
			"block_number":       cfg.BlockNumber,
			"log_index":          cfg.LogIndex,
			"governor":           cfg.Governor,
			"pause_guardian":     cfg.PauseGuardian,
			"extension_delegate": cfg.ExtensionDelegate,
			"base_token_id":      cfg.BaseTokenID,
			"supply_kink":        cfg.SupplyKink,
			"supply_per_second_interest_rate_base":       cfg.SupplyPerSecondInterestRateBase,
			"supply_per_second_interest_rate_slope_low":  cfg.SupplyPerSecondInterestRateSlopeLow,
			"supply_per_second_interest_rate_slope_high": cfg.SupplyPerSecondInterestRateSlopeHigh,
			"borrow_kink": cfg.BorrowKink,
			"borrow_per_second_interest_rate_base":       cfg.BorrowPerSecondInterestRateBase,
			"borrow_per_second_interest_rate_slope_low":  cfg.BorrowPerSecondInterestRateSlopeLow,
			"borrow_per_second_interest_rate_slope_high": cfg.BorrowPerSecondInterestRateSlopeHigh,
			"store_front_price_factor":   cfg.StoreFrontPriceFactor,
			"tracking_index_scale":       cfg.TrackingIndexScale,
			"base_tracking_supply_speed": cfg.BaseTrackingSupplySpeed,
			"base_tracking_borrow_speed": cfg.BaseTrackingBorrowSpeed,
			"base_min_for_rewards":       cfg.BaseMinForRewards,
			"base_borrow_min":            cfg.BaseBorrowMin,
			"target_reserves":            cfg.TargetReserves,
			"version":                    cfg.Version,
		}).Error
}

func (s *marketStore) SaveRewardConfiguration(ctx context.Context, tx *db.DB, cfg *core.MarketRewardConfiguration) error {
	return tx.Update().Create(cfg).Error
}

func (s *marketStore) FindRewardConfiguration(ctx context.Context, id string) (*core.MarketRewardConfiguration, error) {
	var cfg core.MarketRewardConfiguration
	if err := s.db.View().Where("id=?", id).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *marketStore) ListRewardConfigurations(ctx context.Context, marketID string) ([]*core.MarketRewardConfiguration, error) {
	var cfgs []*core.MarketRewardConfiguration
	if err := s.db.View().Where("market_id=?", marketID).Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (s *marketStore) UpdateRewardConfiguration(ctx context.Context, tx *db.DB, cfg *core.MarketRewardConfiguration) error {
	version := cfg.Version
	cfg.Version++
	return tx.Update().Model(core.MarketRewardConfiguration{}).
		Where("id=? and version=?", cfg.ID, version).
		Updates(map[string]interface{}{
			"token_address":  cfg.TokenAddress,
			"rescale_factor": cfg.RescaleFactor,
			"should_upscale": cfg.ShouldUpscale,
			"multiplier":     cfg.Multiplier,
			"version":        cfg.Version,
		}).Error
}

func (s *marketStore) SaveAccounting(ctx context.Context, tx *db.DB, acc *core.MarketAccounting) error {
	return tx.Update().Create(acc).Error
}

func (s *marketStore) FindAccounting(ctx context.Context, marketID string) (*core.MarketAccounting, error) {
	var acc core.MarketAccounting
	if err := s.db.View().Where("market_id=? and id=market_id", marketID).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

// AllAccountings lists the live accounting of each market, excluding the
// frozen snapshot clones sharing the table.
func (s *marketStore) AllAccountings(ctx context.Context) ([]*core.MarketAccounting, error) {
	var accs []*core.MarketAccounting
	if err := s.db.View().Where("id=market_id").Find(&accs).Error; err != nil {
		return nil, err
	}
	return accs, nil
}

func (s *marketStore) UpdateAccounting(ctx context.Context, tx *db.DB, acc *core.MarketAccounting) error {
	version := acc.Version
	acc.Version++
	return tx.Update().Model(core.MarketAccounting{}).
		Where("id=? and version=?", acc.ID, version).
		Updates(map[string]interface{}{
			"block_number":                acc.BlockNumber,
			"timestamp":                   acc.Timestamp,
			"base_supply_index":           acc.BaseSupplyIndex,
			"base_borrow_index":           acc.BaseBorrowIndex,
			"tracking_supply_index":       acc.TrackingSupplyIndex,
			"tracking_borrow_index":       acc.TrackingBorrowIndex,
			"last_accrual_time":           acc.LastAccrualTime,
			"total_base_principal_supply": acc.TotalBasePrincipalSupply,
			"total_base_principal_borrow": acc.TotalBasePrincipalBorrow,
			"base_reserve_balance":        acc.BaseReserveBalance,
			"total_base_supply":           acc.TotalBaseSupply,
			"total_base_borrow":           acc.TotalBaseBorrow,
			"total_base_supply_usd":       acc.TotalBaseSupplyUsd,
			"total_base_borrow_usd":       acc.TotalBaseBorrowUsd,
			"base_reserve_balance_usd":    acc.BaseReserveBalanceUsd,
			"collateral_balance_usd":      acc.CollateralBalanceUsd,
			"collateral_reserves_balance_usd": acc.CollateralReservesBalanceUsd,
			"total_reserve_balance_usd":       acc.TotalReserveBalanceUsd,
			"utilization":        acc.Utilization,
			"supply_apr":         acc.SupplyApr,
			"borrow_apr":         acc.BorrowApr,
			"reward_supply_apr":  acc.RewardSupplyApr,
			"reward_borrow_apr":  acc.RewardBorrowApr,
			"net_supply_apr":     acc.NetSupplyApr,
			"net_borrow_apr":     acc.NetBorrowApr,
			"collateralization":  acc.Collateralization,
			"version":            acc.Version,
		}).Error
}
