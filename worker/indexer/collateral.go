package indexer

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

func (w *Indexer) handleSupplyCollateral(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	dst := core.AddressID(ev.SupplyCollateral.Dst)
	asset := core.AddressID(ev.SupplyCollateral.Asset)

	position, err := w.positionService.GetOrCreate(ctx, tx, market, dst, ev)
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
		Kind:          string(core.InteractionSupplyCollateral),
		From:          core.AddressID(ev.SupplyCollateral.From),
		To:            dst,
		Asset:         asset,
		Amount:        ev.SupplyCollateral.Amount,
		AmountUsd:     w.collateralAmountUsd(ctx, market, asset, ev.SupplyCollateral.Amount, ev.BlockNumber),
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	return w.usageService.Record(ctx, tx, market.ID, dst, core.InteractionSupplyCollateral, ev)
}

func (w *Indexer) handleWithdrawCollateral(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	src := core.AddressID(ev.WithdrawCollateral.Src)
	asset := core.AddressID(ev.WithdrawCollateral.Asset)

	position, err := w.positionService.GetOrCreate(ctx, tx, market, src, ev)
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
		Kind:          string(core.InteractionWithdrawCollateral),
		From:          src,
		To:            core.AddressID(ev.WithdrawCollateral.To),
		Asset:         asset,
		Amount:        ev.WithdrawCollateral.Amount,
		AmountUsd:     w.collateralAmountUsd(ctx, market, asset, ev.WithdrawCollateral.Amount, ev.BlockNumber),
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	return w.usageService.Record(ctx, tx, market.ID, src, core.InteractionWithdrawCollateral, ev)
}

// handleTransferCollateral both positions change, neither market total
// does, but the market accounting still refreshes its USD figures.
func (w *Indexer) handleTransferCollateral(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	from := core.AddressID(ev.TransferCollateral.From)
	to := core.AddressID(ev.TransferCollateral.To)
	asset := core.AddressID(ev.TransferCollateral.Asset)

	sender, err := w.positionService.GetOrCreate(ctx, tx, market, from, ev)
	if err != nil {
		return err
	}
	receiver, err := w.positionService.GetOrCreate(ctx, tx, market, to, ev)
	if err != nil {
		return err
	}

	for _, position := range []*core.Position{sender, receiver} {
		if err := w.positionService.RefreshCollateral(ctx, tx, market, position, asset, ev); err != nil {
			return err
		}
		if err := w.positionService.UpdateAccounting(ctx, tx, market, position, ev); err != nil {
			return err
		}
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
		PositionID:    sender.ID,
		Kind:          string(core.InteractionTransferCollateral),
		From:          from,
		To:            to,
		Asset:         asset,
		Amount:        ev.TransferCollateral.Amount,
		AmountUsd:     w.collateralAmountUsd(ctx, market, asset, ev.TransferCollateral.Amount, ev.BlockNumber),
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	return w.usageService.Record(ctx, tx, market.ID, from, core.InteractionTransferCollateral, ev)
}

// handleBuyCollateral a reserve sale: collateral leaves reserves against a
// base payment. No account position is involved.
func (w *Indexer) handleBuyCollateral(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	if err := w.marketService.UpdateAccounting(ctx, tx, market, ev); err != nil {
		return err
	}

	asset := core.AddressID(ev.BuyCollateral.Asset)

	transaction, err := w.recordTransaction(ctx, tx, ev)
	if err != nil {
		return err
	}
	interaction := &core.Interaction{
		ID:               transaction.ID,
		TransactionID:    transaction.ID,
		MarketID:         market.ID,
		Kind:             core.InteractionBuyCollateral,
		From:             core.AddressID(ev.BuyCollateral.Buyer),
		Asset:            asset,
		Amount:           ev.BuyCollateral.CollateralAmount,
		AmountUsd:        w.collateralAmountUsd(ctx, market, asset, ev.BuyCollateral.CollateralAmount, ev.BlockNumber),
		CounterAsset:     market.ID,
		CounterAmount:    ev.BuyCollateral.BaseAmount,
		CounterAmountUsd: w.baseAmountUsd(ctx, market, ev.BuyCollateral.BaseAmount, ev.BlockNumber),
	}
	return w.interactionStore.Save(ctx, tx, interaction)
}
