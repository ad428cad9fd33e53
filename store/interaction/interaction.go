package interaction

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type interactionStore struct {
	db *db.DB
}

// New new interaction store
func New(db *db.DB) core.IInteractionStore {
	return &interactionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Transaction{}).AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}
		return db.Update().Model(core.Interaction{}).AutoMigrate(core.Interaction{}).Error
	})
}

func (s *interactionStore) SaveTransaction(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	return tx.Update().Create(transaction).Error
}

func (s *interactionStore) Save(ctx context.Context, tx *db.DB, interaction *core.Interaction) error {
	return tx.Update().Create(interaction).Error
}

func (s *interactionStore) ListByPosition(ctx context.Context, positionID string, limit int) ([]*core.Interaction, error) {
	var interactions []*core.Interaction
	if err := s.db.View().Where("position_id=?", positionID).
		Order("created_at desc").Limit(limit).Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

func (s *interactionStore) ListByMarket(ctx context.Context, marketID string, limit int) ([]*core.Interaction, error) {
	var interactions []*core.Interaction
	if err := s.db.View().Where("market_id=?", marketID).
		Order("created_at desc").Limit(limit).Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}
