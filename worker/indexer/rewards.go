package indexer

import (
	"context"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
)

// handleRewardClaimed usage is only counted when the claim attributes to a
// single position, since the market scope is unknowable otherwise.
func (w *Indexer) handleRewardClaimed(ctx context.Context, tx *db.DB, ev *core.Event) error {
	position, err := w.positionService.AttributeRewardClaim(ctx, tx, ev)
	if err != nil {
		return err
	}

	src := core.AddressID(ev.RewardClaimed.Src)

	transaction, err := w.recordTransaction(ctx, tx, ev)
	if err != nil {
		return err
	}
	interaction := &core.Interaction{
		ID:            transaction.ID,
		TransactionID: transaction.ID,
		Kind:          string(core.InteractionRewardClaim),
		From:          src,
		To:            core.AddressID(ev.RewardClaimed.Recipient),
		Asset:         core.AddressID(ev.RewardClaimed.Token),
		Amount:        ev.RewardClaimed.Amount,
	}
	if position != nil {
		interaction.MarketID = position.MarketID
		interaction.PositionID = position.ID
	}
	if err := w.interactionStore.Save(ctx, tx, interaction); err != nil {
		return err
	}

	if position == nil {
		return nil
	}
	return w.usageService.Record(ctx, tx, position.MarketID, src, core.InteractionRewardClaim, ev)
}
