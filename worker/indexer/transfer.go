package indexer

import (
	"context"

	"cometindex/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store/db"
)

// handleTransfer a direct transfer of the interest-bearing base token
// between two accounts. Mints and burns carry the zero address on one side
// and are already covered by Supply and Withdraw.
func (w *Indexer) handleTransfer(ctx context.Context, tx *db.DB, ev *core.Event) error {
	zero := common.Address{}
	if ev.Transfer.From == zero || ev.Transfer.To == zero {
		return nil
	}

	market, err := w.marketService.GetOrCreate(ctx, tx, core.AddressID(ev.Address), ev)
	if err != nil {
		return err
	}

	from := core.AddressID(ev.Transfer.From)
	to := core.AddressID(ev.Transfer.To)

	sender, err := w.positionService.GetOrCreate(ctx, tx, market, from, ev)
	if err != nil {
		return err
	}
	receiver, err := w.positionService.GetOrCreate(ctx, tx, market, to, ev)
	if err != nil {
		return err
	}

	changes := make([]*core.PrincipalChange, 0, 2)
	for _, position := range []*core.Position{sender, receiver} {
		change, err := w.positionService.UpdatePrincipal(ctx, tx, market, position, ev)
		if err != nil {
			return err
		}
		changes = append(changes, change)

		if err := w.positionService.UpdateAccounting(ctx, tx, market, position, ev); err != nil {
			return err
		}
	}

	if err := w.marketService.UpdateAccounting(ctx, tx, market, ev, changes...); err != nil {
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
		Kind:          string(core.InteractionTransferBase),
		From:          from,
		To:            to,
		Amount:        ev.Transfer.Amount,
		AmountUsd:     w.baseAmountUsd(ctx, market, ev.Transfer.Amount, ev.BlockNumber),
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	return w.usageService.Record(ctx, tx, market.ID, from, core.InteractionTransferBase, ev)
}
