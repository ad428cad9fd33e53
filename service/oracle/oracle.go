package oracle

import (
	"context"
	"fmt"

	"cometindex/core"

	"github.com/bluele/gcache"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// priceFeedScale chainlink style answers carry 8 decimals
var priceFeedScale = decimal.New(1, 8)

type priceService struct {
	cfg         *core.Config
	chain       core.ChainStateReader
	marketStore core.IMarketStore
	tokenStore  core.ITokenStore
	cache       gcache.Cache
}

// New new price service
func New(cfg *core.Config, chain core.ChainStateReader, marketStore core.IMarketStore, tokenStore core.ITokenStore) core.IPriceService {
	return &priceService{
		cfg:         cfg,
		chain:       chain,
		marketStore: marketStore,
		tokenStore:  tokenStore,
		cache:       gcache.New(4096).LRU().Build(),
	}
}

// PriceFeedUsd prices one feed at a block. Feed reads go through the comet
// contract's getPrice, so a nil market falls back to any known market.
func (s *priceService) PriceFeedUsd(ctx context.Context, market *core.Market, feed string, block uint64) (decimal.Decimal, error) {
	key := fmt.Sprintf("%s:%d", feed, block)
	if v, err := s.cache.Get(key); err == nil {
		return v.(decimal.Decimal), nil
	}

	comet, err := s.cometFor(ctx, market)
	if err != nil {
		return decimal.Zero, err
	}

	raw, err := s.chain.Price(ctx, comet, common.HexToAddress(feed), block)
	if err != nil {
		return decimal.Zero, err
	}

	price := raw.Decimal().Div(priceFeedScale)
	_ = s.cache.Set(key, price)
	return price, nil
}

func (s *priceService) cometFor(ctx context.Context, market *core.Market) (common.Address, error) {
	if market != nil {
		return common.HexToAddress(market.CometProxy), nil
	}

	markets, err := s.marketStore.All(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(markets) == 0 {
		return common.Address{}, core.ErrMarketNotFound
	}
	return common.HexToAddress(markets[0].CometProxy), nil
}

// TokenPriceUsd prices a token record. Base and collateral feeds quote in
// the market's unit of account, so markets with a configured unit of
// account feed take a second hop to land in USD.
func (s *priceService) TokenPriceUsd(ctx context.Context, market *core.Market, tokenID string, feed string, block uint64) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("service", "oracle")

	token, err := s.tokenStore.Find(ctx, tokenID)
	if gorm.IsRecordNotFoundError(err) {
		return decimal.Zero, core.ErrTokenNotFound
	} else if err != nil {
		return decimal.Zero, err
	}

	price, err := s.PriceFeedUsd(ctx, market, feed, block)
	if err != nil {
		return decimal.Zero, err
	}

	switch token.Kind {
	case core.TokenKindBase, core.TokenKindCollateral:
		if market == nil {
			return price, nil
		}
		uoaFeed, ok := s.cfg.Protocol.UnitOfAccountPriceFeeds[market.CometProxy]
		if !ok {
			return price, nil
		}
		uoaPrice, err := s.PriceFeedUsd(ctx, market, uoaFeed, block)
		if err != nil {
			log.WithError(err).Warningln("unit of account price failed, token priced at zero")
			return decimal.Zero, nil
		}
		return price.Mul(uoaPrice), nil
	default:
		return price, nil
	}
}
