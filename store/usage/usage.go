package usage

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type usageStore struct {
	db *db.DB
}

// New new usage store
func New(db *db.DB) core.IUsageStore {
	return &usageStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Usage{}).AutoMigrate(core.Usage{}).Error; err != nil {
			return err
		}
		return db.Update().Model(core.ActiveAccount{}).AutoMigrate(core.ActiveAccount{}).Error
	})
}

func (s *usageStore) Save(ctx context.Context, tx *db.DB, usage *core.Usage) error {
	return tx.Update().Create(usage).Error
}

func (s *usageStore) Find(ctx context.Context, id string) (*core.Usage, error) {
	var usage core.Usage
	if err := s.db.View().Where("id=?", id).First(&usage).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}

func (s *usageStore) Update(ctx context.Context, tx *db.DB, usage *core.Usage) error {
	version := usage.Version
	usage.Version++
	return tx.Update().Model(core.Usage{}).
		Where("id=? and version=?", usage.ID, version).
		Updates(map[string]interface{}{
			"unique_users_count":        usage.UniqueUsersCount,
			"interaction_count":         usage.InteractionCount,
			"supply_base_count":         usage.SupplyBaseCount,
			"withdraw_base_count":       usage.WithdrawBaseCount,
			"liquidation_count":         usage.LiquidationCount,
			"supply_collateral_count":   usage.SupplyCollateralCount,
			"withdraw_collateral_count": usage.WithdrawCollateralCount,
			"transfer_collateral_count": usage.TransferCollateralCount,
			"transfer_base_count":       usage.TransferBaseCount,
			"reward_claim_count":        usage.RewardClaimCount,
			"version":                   usage.Version,
		}).Error
}

func (s *usageStore) MarkActive(ctx context.Context, tx *db.DB, id string) (bool, error) {
	var marker core.ActiveAccount
	err := s.db.View().Where("id=?", id).First(&marker).Error
	if err == nil {
		return false, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return false, err
	}

	if err := tx.Update().Create(&core.ActiveAccount{ID: id}).Error; err != nil {
		return false, err
	}
	return true, nil
}
