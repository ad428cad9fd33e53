package indexer

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

// handleUpgraded a comet proxy switched implementations; every governance
// parameter may have changed.
func (w *Indexer) handleUpgraded(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	market.Implementation = core.AddressID(ev.Upgraded.Implementation)
	if err := w.marketStore.Update(ctx, tx, market); err != nil {
		return err
	}

	if err := w.marketService.RefreshConfiguration(ctx, tx, market, ev); err != nil {
		return err
	}
	return w.marketService.UpdateAccounting(ctx, tx, market, ev)
}

func (w *Indexer) handleConfiguratorUpgraded(ctx context.Context, tx *db.DB, ev *core.Event) error {
	protocol, err := w.protocolService.GetOrCreate(ctx, tx, ev)
	if err != nil {
		return err
	}

	protocol.ConfiguratorImplementation = core.AddressID(ev.Upgraded.Implementation)
	return w.protocolStore.Update(ctx, tx, protocol)
}

// handleSetFactory the configurator bound a new deployment factory to a
// comet proxy.
func (w *Indexer) handleSetFactory(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.SetFactory.CometProxy), ev)
	if err != nil {
		return err
	}

	market.Factory = core.AddressID(ev.SetFactory.NewFactory)
	if err := w.marketStore.Update(ctx, tx, market); err != nil {
		return err
	}

	return w.marketService.RefreshConfiguration(ctx, tx, market, ev)
}
