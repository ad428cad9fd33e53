package indexer

import (
	"context"

	"cometindex/core"
	"cometindex/internal/comet"

	"github.com/fox-one/pkg/store/db"
)

// handleAbsorbDebt a liquidation's base leg: the protocol pays off the
// borrower's debt, so the borrower's principal moves toward zero.
func (w *Indexer) handleAbsorbDebt(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	borrower := core.AddressID(ev.AbsorbDebt.Borrower)
	absorber := core.AddressID(ev.AbsorbDebt.Absorber)

	position, err := w.positionService.GetOrCreate(ctx, tx, market, borrower, ev)
	if err != nil {
		return err
	}

	change, err := w.positionService.UpdatePrincipal(ctx, tx, market, position, ev)
	if err != nil {
		return err
	}
	if err := w.positionService.UpdateAccounting(ctx, tx, market, position, ev); err != nil {
		return err
	}
	if err := w.marketService.UpdateAccounting(ctx, tx, market, ev, change); err != nil {
		return err
	}

	transaction, err := w.recordTransaction(ctx, tx, ev)
	if err != nil {
		return err
	}
	interaction := &core.Interaction{
		ID:            transaction.ID,
		TransactionID: transaction.ID,
		MarketID:      market.ID,
		PositionID:    position.ID,
		Kind:          string(core.InteractionLiquidation),
		From:          absorber,
		To:            borrower,
		Amount:        ev.AbsorbDebt.BasePaidOut,
		AmountUsd:     comet.FormatUnits(ev.AbsorbDebt.UsdValue, 8),
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	return w.usageService.Record(ctx, tx, market.ID, absorber, core.InteractionLiquidation, ev)
}

// handleAbsorbCollateral a liquidation's collateral leg: the borrower's
// collateral is seized into protocol reserves. The liquidation itself is
// counted once, by the debt leg.
func (w *Indexer) handleAbsorbCollateral(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	borrower := core.AddressID(ev.AbsorbCollateral.Borrower)
	asset := core.AddressID(ev.AbsorbCollateral.Asset)

	position, err := w.positionService.GetOrCreate(ctx, tx, market, borrower, ev)
	if err != nil {
		return err
	}

	if err := w.positionService.RefreshCollateral(ctx, tx, market, position, asset, ev); err != nil {
		return err
	}
	if err := w.positionService.UpdateAccounting(ctx, tx, market, position, ev); err != nil {
		return err
	}
	if err := w.marketService.UpdateAccounting(ctx, tx, market, ev); err != nil {
		return err
	}

	transaction, err := w.recordTransaction(ctx, tx, ev)
	if err != nil {
		return err
	}
	interaction := &core.Interaction{
		ID:            transaction.ID,
		TransactionID: transaction.ID,
		MarketID:      market.ID,
		PositionID:    position.ID,
		Kind:          core.InteractionAbsorbCollateral,
		From:          borrower,
		To:            core.AddressID(ev.AbsorbCollateral.Absorber),
		Asset:         asset,
		Amount:        ev.AbsorbCollateral.CollateralAbsorbed,
		AmountUsd:     comet.FormatUnits(ev.AbsorbCollateral.UsdValue, 8),
	}
	return w.interactionStore.Save(ctx, tx, interaction)
}
