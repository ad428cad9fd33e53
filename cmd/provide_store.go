package cmd

import (
	"cometindex/core"
	accountstore "cometindex/store/account"
	collateralstore "cometindex/store/collateral"
	eventstore "cometindex/store/event"
	interactionstore "cometindex/store/interaction"
	marketstore "cometindex/store/market"
	positionstore "cometindex/store/position"
	protocolstore "cometindex/store/protocol"
	snapshotstore "cometindex/store/snapshot"
	tokenstore "cometindex/store/token"
	usagestore "cometindex/store/usage"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideEventStore(db *db.DB) core.EventStore {
	return eventstore.New(db)
}

func provideMarketStore(db *db.DB) core.IMarketStore {
	return marketstore.New(db)
}

func provideTokenStore(db *db.DB) core.ITokenStore {
	return tokenstore.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return accountstore.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return positionstore.New(db)
}

func provideCollateralStore(db *db.DB) core.ICollateralStore {
	return collateralstore.New(db)
}

func provideProtocolStore(db *db.DB) core.IProtocolStore {
	return protocolstore.New(db)
}

func provideSnapshotStore(db *db.DB) core.ISnapshotStore {
	return snapshotstore.New(db)
}

func provideUsageStore(db *db.DB) core.IUsageStore {
	return usagestore.New(db)
}

func provideInteractionStore(db *db.DB) core.IInteractionStore {
	return interactionstore.New(db)
}
