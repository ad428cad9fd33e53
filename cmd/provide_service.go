package cmd

import (
	"context"

	"cometindex/core"
	chainservice "cometindex/service/chain"
	marketservice "cometindex/service/market"
	oracleservice "cometindex/service/oracle"
	positionservice "cometindex/service/position"
	protocolservice "cometindex/service/protocol"
	snapshotservice "cometindex/service/snapshot"
	usageservice "cometindex/service/usage"
)

func provideChainReader(ctx context.Context) core.ChainStateReader {
	reader, err := chainservice.Dial(ctx, cfg.Chain.Endpoint)
	if err != nil {
		panic(err)
	}

	return reader
}

func providePriceService(chain core.ChainStateReader, marketStore core.IMarketStore, tokenStore core.ITokenStore) core.IPriceService {
	return oracleservice.New(&cfg, chain, marketStore, tokenStore)
}

func provideSnapshotService(snapshotStore core.ISnapshotStore) core.ISnapshotService {
	return snapshotservice.New(snapshotStore)
}

func provideProtocolService(protocolStore core.IProtocolStore, marketStore core.IMarketStore, snapshotService core.ISnapshotService) core.IProtocolService {
	return protocolservice.New(&cfg, protocolStore, marketStore, snapshotService)
}

func provideMarketService(
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	collateralStore core.ICollateralStore,
	chain core.ChainStateReader,
	priceService core.IPriceService,
	snapshotService core.ISnapshotService,
	protocolService core.IProtocolService,
) core.IMarketService {
	return marketservice.New(&cfg, marketStore, tokenStore, collateralStore, chain, priceService, snapshotService, protocolService)
}

func providePositionService(
	accountStore core.IAccountStore,
	positionStore core.IPositionStore,
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	collateralStore core.ICollateralStore,
	chain core.ChainStateReader,
	priceService core.IPriceService,
	snapshotService core.ISnapshotService,
) core.IPositionService {
	return positionservice.New(&cfg, accountStore, positionStore, marketStore, tokenStore, collateralStore, chain, priceService, snapshotService)
}

func provideUsageService(usageStore core.IUsageStore) core.IUsageService {
	return usageservice.New(usageStore)
}
