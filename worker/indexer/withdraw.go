package indexer

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

func (w *Indexer) handleWithdraw(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	src := core.AddressID(ev.Withdraw.Src)
	position, err := w.positionService.GetOrCreate(ctx, tx, market, src, ev)
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
		Kind:          string(core.InteractionWithdrawBase),
		From:          src,
		To:            core.AddressID(ev.Withdraw.To),
		Amount:        ev.Withdraw.Amount,
		AmountUsd:     w.baseAmountUsd(ctx, market, ev.Withdraw.Amount, ev.BlockNumber),
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	return w.usageService.Record(ctx, tx, market.ID, src, core.InteractionWithdrawBase, ev)
}
