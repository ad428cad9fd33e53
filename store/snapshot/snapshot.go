package snapshot

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type snapshotStore struct {
	db *db.DB
}

// New new snapshot store
func New(db *db.DB) core.ISnapshotStore {
	return &snapshotStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		models := []interface{}{
			core.MarketAccountingSnapshot{},
			core.ProtocolAccountingSnapshot{},
			core.PositionAccountingSnapshot{},
			core.MarketConfigurationSnapshot{},
		}
		for _, m := range models {
			if err := db.Update().Model(m).AutoMigrate(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// exists reports whether a snapshot row with the id is already present.
// First writer wins: a hit means the caller must not write.
func (s *snapshotStore) exists(model interface{}, id string) (bool, error) {
	err := s.db.View().Where("id=?", id).First(model).Error
	if err == nil {
		return true, nil
	}
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	return false, err
}

func (s *snapshotStore) SaveMarketSnapshot(ctx context.Context, tx *db.DB, snapshot *core.MarketAccountingSnapshot, frozen *core.MarketAccounting) error {
	ok, err := s.exists(&core.MarketAccountingSnapshot{}, snapshot.ID)
	if err != nil || ok {
		return err
	}
	if err := tx.Update().Create(frozen).Error; err != nil {
		return err
	}
	return tx.Update().Create(snapshot).Error
}

func (s *snapshotStore) FindMarketSnapshot(ctx context.Context, id string) (*core.MarketAccountingSnapshot, error) {
	var snapshot core.MarketAccountingSnapshot
	if err := s.db.View().Where("id=?", id).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *snapshotStore) SaveProtocolSnapshot(ctx context.Context, tx *db.DB, snapshot *core.ProtocolAccountingSnapshot, frozen *core.ProtocolAccounting) error {
	ok, err := s.exists(&core.ProtocolAccountingSnapshot{}, snapshot.ID)
	if err != nil || ok {
		return err
	}
	if err := tx.Update().Create(frozen).Error; err != nil {
		return err
	}
	return tx.Update().Create(snapshot).Error
}

func (s *snapshotStore) FindProtocolSnapshot(ctx context.Context, id string) (*core.ProtocolAccountingSnapshot, error) {
	var snapshot core.ProtocolAccountingSnapshot
	if err := s.db.View().Where("id=?", id).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *snapshotStore) SavePositionSnapshot(ctx context.Context, tx *db.DB, snapshot *core.PositionAccountingSnapshot, frozen *core.PositionAccounting) error {
	ok, err := s.exists(&core.PositionAccountingSnapshot{}, snapshot.ID)
	if err != nil || ok {
		return err
	}
	if err := tx.Update().Create(frozen).Error; err != nil {
		return err
	}
	return tx.Update().Create(snapshot).Error
}

func (s *snapshotStore) FindPositionSnapshot(ctx context.Context, id string) (*core.PositionAccountingSnapshot, error) {
	var snapshot core.PositionAccountingSnapshot
	if err := s.db.View().Where("id=?", id).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *snapshotStore) SaveConfigurationSnapshot(ctx context.Context, tx *db.DB, snapshot *core.MarketConfigurationSnapshot, frozen *core.MarketConfiguration) error {
	ok, err := s.exists(&core.MarketConfigurationSnapshot{}, snapshot.ID)
	if err != nil || ok {
		return err
	}
	if err := tx.Update().Create(frozen).Error; err != nil {
		return err
	}
	return tx.Update().Create(snapshot).Error
}

func (s *snapshotStore) FindConfigurationSnapshot(ctx context.Context, id string) (*core.MarketConfigurationSnapshot, error) {
	var snapshot core.MarketConfigurationSnapshot
	if err := s.db.View().Where("id=?", id).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}
