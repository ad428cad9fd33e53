package indexer

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

func (w *Indexer) handleWithdrawReserves(ctx context.Context, tx *db.DB, ev *core.Event) error {
	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
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
		Kind:          core.InteractionWithdrawReserves,
		To:            core.AddressID(ev.WithdrawReserves.To),
		Amount:        ev.WithdrawReserves.Amount,
		AmountUsd:     w.baseAmountUsd(ctx, market, ev.WithdrawReserves.Amount, ev.BlockNumber),
	}
	return w.interactionStore.Save(ctx, tx, interaction)
}
