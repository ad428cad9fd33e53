package account

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

type accountStore struct {
	db *db.DB
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().Model(core.Account{}).AutoMigrate(core.Account{}).Error
	})
}

func (s *accountStore) Save(ctx context.Context, tx *db.DB, account *core.Account) error {
	return tx.Update().Create(account).Error
}

func (s *accountStore) Find(ctx context.Context, id string) (*core.Account, error) {
	var account core.Account
	if err := s.db.View().Where("id=?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
