package refresher

import (
	"context"
	"time"

	"cometindex/core"
	"cometindex/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
)

// Worker periodically re-reads every market at the chain head so accrued
// interest and prices stay current between events.
type Worker struct {
	worker.BaseJob
	db            *db.DB
	chain         core.ChainStateReader
	marketStore   core.IMarketStore
	marketService core.IMarketService
}

// New new refresher worker
func New(
	location string,
	database *db.DB,
	chain core.ChainStateReader,
	marketStore core.IMarketStore,
	marketService core.IMarketService,
) *Worker {
	job := Worker{
		db:            database,
		chain:         chain,
		marketStore:   marketStore,
		marketService: marketService,
	}

	l, _ := time.LoadLocation(location)
	job.Cron = cron.New(cron.WithLocation(l))
	job.Cron.AddFunc("@every 5m", job.BaseJob.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	w.OnWork = func() error {
		return w.onWork(ctx)
	}

	w.Start()
	defer w.Stop()

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "refresher")

	block, timestamp, err := w.chain.Head(ctx)
	if err != nil {
		log.WithError(err).Errorln("head read failed")
		return err
	}

	markets, err := w.marketStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch all markets error")
		return err
	}

	tick := &core.Event{
		BlockNumber: block,
		Timestamp:   timestamp,
	}

	for _, m := range markets {
		if m.LatestBlock > block {
			continue
		}

		market := m
		if err := w.db.Tx(func(tx *db.DB) error {
			return w.marketService.UpdateAccounting(ctx, tx, market, tick)
		}); err != nil {
			log.WithError(err).WithField("market", market.ID).Errorln("refresh failed")
			return err
		}
	}

	return nil
}
