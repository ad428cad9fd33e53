package cmd

import (
	"cometindex/worker"
	"cometindex/worker/indexer"
	"cometindex/worker/refresher"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the indexer workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		chain := provideChainReader(ctx)

		propertyStore := providePropertyStore(database)
		eventStore := provideEventStore(database)
		marketStore := provideMarketStore(database)
		tokenStore := provideTokenStore(database)
		accountStore := provideAccountStore(database)
		positionStore := providePositionStore(database)
		collateralStore := provideCollateralStore(database)
		protocolStore := provideProtocolStore(database)
		snapshotStore := provideSnapshotStore(database)
		usageStore := provideUsageStore(database)
		interactionStore := provideInteractionStore(database)

		priceService := providePriceService(chain, marketStore, tokenStore)
		snapshotService := provideSnapshotService(snapshotStore)
		protocolService := provideProtocolService(protocolStore, marketStore, snapshotService)
		marketService := provideMarketService(marketStore, tokenStore, collateralStore, chain, priceService, snapshotService, protocolService)
		positionService := providePositionService(accountStore, positionStore, marketStore, tokenStore, collateralStore, chain, priceService, snapshotService)
		usageService := provideUsageService(usageStore)

		workers := []worker.Worker{
			indexer.New(
				database,
				eventStore,
				propertyStore,
				marketStore,
				positionStore,
				interactionStore,
				protocolStore,
				tokenStore,
				priceService,
				marketService,
				positionService,
				protocolService,
				usageService,
				cfg.App.BatchSize,
			),
			refresher.New(cfg.App.Location, database, chain, marketStore, marketService),
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			cmd.PrintErrln("worker exited:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
