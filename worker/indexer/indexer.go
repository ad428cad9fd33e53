package indexer

import (
	"context"
	"errors"

	"cometindex/core"
	"cometindex/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

const (
	checkpointKey = "events_checkpoint"
	defaultLimit  = 500
)

// Indexer consumes the decoded event stream strictly in order and applies
// each event to the ledger inside one transaction.
type Indexer struct {
	worker.TickWorker
	db            *db.DB
	stream        core.EventStream
	propertyStore property.Store

	marketStore      core.IMarketStore
	positionStore    core.IPositionStore
	interactionStore core.IInteractionStore
	protocolStore    core.IProtocolStore
	tokenStore       core.ITokenStore

	priceService core.IPriceService

	marketService   core.IMarketService
	positionService core.IPositionService
	protocolService core.IProtocolService
	usageService    core.IUsageService

	limit int
}

// New new indexer worker
func New(
	database *db.DB,
	stream core.EventStream,
	propertyStore property.Store,
	marketStore core.IMarketStore,
	positionStore core.IPositionStore,
	interactionStore core.IInteractionStore,
	protocolStore core.IProtocolStore,
	tokenStore core.ITokenStore,
	priceService core.IPriceService,
	marketService core.IMarketService,
	positionService core.IPositionService,
	protocolService core.IProtocolService,
	usageService core.IUsageService,
	batchSize int,
) *Indexer {
	if batchSize <= 0 {
		batchSize = defaultLimit
	}

	return &Indexer{
		db:               database,
		stream:           stream,
		propertyStore:    propertyStore,
		marketStore:      marketStore,
		positionStore:    positionStore,
		interactionStore: interactionStore,
		protocolStore:    protocolStore,
		tokenStore:       tokenStore,
		priceService:     priceService,
		marketService:    marketService,
		positionService:  positionService,
		protocolService:  protocolService,
		usageService:     usageService,
		limit:            batchSize,
	}
}

// Run run worker
func (w *Indexer) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Indexer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "indexer")

	v, err := w.propertyStore.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get error")
		return err
	}

	events, err := w.stream.List(ctx, v.Int64(), w.limit)
	if err != nil {
		log.WithError(err).Errorln("stream.List")
		return err
	}

	if len(events) == 0 {
		return errors.New("no more events")
	}

	for _, ev := range events {
		if err := w.handleEvent(ctx, ev); err != nil {
			return err
		}

		if err := w.propertyStore.Save(ctx, checkpointKey, ev.Sequence); err != nil {
			log.WithError(err).Errorln("property.Save:", ev.Sequence)
			return err
		}
	}

	return nil
}

func (w *Indexer) handleEvent(ctx context.Context, ev *core.Event) error {
	log := logger.FromContext(ctx).
		WithField("event", string(ev.Type)).
		WithField("block", ev.BlockNumber).
		WithField("log_index", ev.LogIndex)
	ctx = logger.WithContext(ctx, log)

	return w.db.Tx(func(tx *db.DB) error {
		switch ev.Type {
		case core.EventSupply:
			return w.handleSupply(ctx, tx, ev)
		case core.EventWithdraw:
			return w.handleWithdraw(ctx, tx, ev)
		case core.EventAbsorbDebt:
			return w.handleAbsorbDebt(ctx, tx, ev)
		case core.EventSupplyCollateral:
			return w.handleSupplyCollateral(ctx, tx, ev)
		case core.EventWithdrawCollateral:
			return w.handleWithdrawCollateral(ctx, tx, ev)
		case core.EventTransferCollateral:
			return w.handleTransferCollateral(ctx, tx, ev)
		case core.EventAbsorbCollateral:
			return w.handleAbsorbCollateral(ctx, tx, ev)
		case core.EventBuyCollateral:
			return w.handleBuyCollateral(ctx, tx, ev)
		case core.EventWithdrawReserves:
			return w.handleWithdrawReserves(ctx, tx, ev)
		case core.EventTransfer:
			return w.handleTransfer(ctx, tx, ev)
		case core.EventRewardClaimed:
			return w.handleRewardClaimed(ctx, tx, ev)
		case core.EventUpgraded:
			return w.handleUpgraded(ctx, tx, ev)
		case core.EventConfiguratorUpgrade:
			return w.handleConfiguratorUpgraded(ctx, tx, ev)
		case core.EventSetFactory:
			return w.handleSetFactory(ctx, tx, ev)
		default:
			log.Warningln("unhandled event type")
			return nil
		}
	})
}

// recordTransaction writes the per-log transaction envelope shared by the
// interaction records of this event.
func (w *Indexer) recordTransaction(ctx context.Context, tx *db.DB, ev *core.Event) (*core.Transaction, error) {
	transaction := &core.Transaction{
		ID:          core.EventID(ev.TxHash, ev.LogIndex),
		Hash:        ev.TxHash.Hex(),
		BlockNumber: ev.BlockNumber,
		LogIndex:    ev.LogIndex,
		Timestamp:   ev.Timestamp,
		From:        core.AddressID(ev.TxFrom),
		To:          core.AddressID(ev.TxTo),
		GasLimit:    ev.GasLimit,
		GasPrice:    ev.GasPrice,
	}
	if ev.Receipt != nil {
		transaction.GasUsed = ev.Receipt.GasUsed
	}

	if err := w.interactionStore.SaveTransaction(ctx, tx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}
