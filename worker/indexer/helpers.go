package indexer

import (
	"context"

	"cometindex/core"
	"cometindex/internal/comet"
	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// baseAmountUsd values an amount of the market's base token, zero when the
// price is unavailable.
func (w *Indexer) baseAmountUsd(ctx context.Context, market *core.Market, amount bigint.Int, block uint64) decimal.Decimal {
	log := logger.FromContext(ctx).WithField("worker", "indexer")

	base, err := w.tokenStore.FindBase(ctx, market.ID)
	if err != nil {
		log.WithError(err).Warningln("base token lookup failed, amount valued at zero")
		return decimal.Zero
	}
	token, err := w.tokenStore.Find(ctx, base.TokenID)
	if err != nil {
		log.WithError(err).Warningln("token lookup failed, amount valued at zero")
		return decimal.Zero
	}

	price, err := w.priceService.TokenPriceUsd(ctx, market, base.TokenID, base.PriceFeed, block)
	if err != nil {
		log.WithError(err).Warningln("base price failed, amount valued at zero")
		return decimal.Zero
	}
	return comet.TokenValueUsd(amount, token.Decimals, price)
}

// collateralAmountUsd values an amount of one collateral asset.
func (w *Indexer) collateralAmountUsd(ctx context.Context, market *core.Market, asset string, amount bigint.Int, block uint64) decimal.Decimal {
	log := logger.FromContext(ctx).WithField("worker", "indexer")

	col, err := w.tokenStore.FindCollateral(ctx, market.ID, asset)
	if err != nil {
		log.WithError(err).Warningln("collateral token lookup failed, amount valued at zero")
		return decimal.Zero
	}
	token, err := w.tokenStore.Find(ctx, col.TokenID)
	if err != nil {
		log.WithError(err).Warningln("token lookup failed, amount valued at zero")
		return decimal.Zero
	}

	price, err := w.priceService.TokenPriceUsd(ctx, market, col.TokenID, col.PriceFeed, block)
	if err != nil {
		log.WithError(err).Warningln("collateral price failed, amount valued at zero")
		return decimal.Zero
	}
	return comet.TokenValueUsd(amount, token.Decimals, price)
}
