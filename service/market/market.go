package market

import (
	"context"

	"cometindex/core"
	"cometindex/internal/comet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type marketService struct {
	cfg             *core.Config
	marketStore     core.IMarketStore
	tokenStore      core.ITokenStore
	collateralStore core.ICollateralStore
	chain           core.ChainStateReader
	priceService    core.IPriceService
	snapshotService core.ISnapshotService
	protocolService core.IProtocolService
}

// New new market service
func New(
	cfg *core.Config,
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	collateralStore core.ICollateralStore,
	chain core.ChainStateReader,
	priceService core.IPriceService,
	snapshotService core.ISnapshotService,
	protocolService core.IProtocolService,
) core.IMarketService {
	return &marketService{
		cfg:             cfg,
		marketStore:     marketStore,
		tokenStore:      tokenStore,
		collateralStore: collateralStore,
		chain:           chain,
		priceService:    priceService,
		snapshotService: snapshotService,
		protocolService: protocolService,
	}
}

func (s *marketService) GetOrCreate(ctx context.Context, tx *db.DB, proxy string, ev *core.Event) (*core.Market, error) {
	market, err := s.marketStore.Find(ctx, proxy)
	if err == nil {
		return market, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	market = &core.Market{
		ID:              proxy,
		CometProxy:      proxy,
		CreationBlock:   ev.BlockNumber,
		LatestBlock:     ev.BlockNumber,
		LatestTimestamp: ev.Timestamp,
		ConfigurationID: proxy,
		AccountingID:    proxy,
	}
	if err := s.marketStore.Save(ctx, tx, market); err != nil {
		return nil, err
	}

	acc := &core.MarketAccounting{
		ID:              proxy,
		MarketID:        proxy,
		BlockNumber:     ev.BlockNumber,
		Timestamp:       ev.Timestamp,
		BaseSupplyIndex: comet.BaseIndexScale,
		BaseBorrowIndex: comet.BaseIndexScale,
	}
	if err := s.marketStore.SaveAccounting(ctx, tx, acc); err != nil {
		return nil, err
	}

	if err := s.RefreshConfiguration(ctx, tx, market, ev); err != nil {
		return nil, err
	}

	if err := s.protocolService.RegisterMarket(ctx, tx, ev); err != nil {
		return nil, err
	}

	return market, nil
}

func (s *marketService) RefreshConfiguration(ctx context.Context, tx *db.DB, market *core.Market, ev *core.Event) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	data, err := s.chain.MarketConfig(ctx, common.HexToAddress(market.CometProxy), ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("configuration read failed, kept as is")
		return nil
	}

	baseTokenID, err := s.ensureBaseToken(ctx, tx, market, data)
	if err != nil {
		return err
	}

	cfg, created, err := s.loadConfiguration(ctx, market)
	if err != nil {
		return err
	}

	cfg.BlockNumber = ev.BlockNumber
	cfg.LogIndex = ev.LogIndex
	cfg.Governor = core.AddressID(data.Governor)
	cfg.PauseGuardian = core.AddressID(data.PauseGuardian)
	cfg.ExtensionDelegate = core.AddressID(data.ExtensionDelegate)
	cfg.BaseTokenID = baseTokenID
	cfg.SupplyKink = data.SupplyKink
	cfg.SupplyPerSecondInterestRateBase = data.SupplyPerSecondInterestRateBase
	cfg.SupplyPerSecondInterestRateSlopeLow = data.SupplyPerSecondInterestRateSlopeLow
	cfg.SupplyPerSecondInterestRateSlopeHigh = data.SupplyPerSecondInterestRateSlopeHigh
	cfg.BorrowKink = data.BorrowKink
	cfg.BorrowPerSecondInterestRateBase = data.BorrowPerSecondInterestRateBase
	cfg.BorrowPerSecondInterestRateSlopeLow = data.BorrowPerSecondInterestRateSlopeLow
	cfg.BorrowPerSecondInterestRateSlopeHigh = data.BorrowPerSecondInterestRateSlopeHigh
	cfg.StoreFrontPriceFactor = data.StoreFrontPriceFactor
	cfg.TrackingIndexScale = data.TrackingIndexScale
	cfg.BaseTrackingSupplySpeed = data.BaseTrackingSupplySpeed
	cfg.BaseTrackingBorrowSpeed = data.BaseTrackingBorrowSpeed
	cfg.BaseMinForRewards = data.BaseMinForRewards
	cfg.BaseBorrowMin = data.BaseBorrowMin
	cfg.TargetReserves = data.TargetReserves

	if created {
		if err := s.marketStore.SaveConfiguration(ctx, tx, cfg); err != nil {
			return err
		}
	} else if err := s.marketStore.UpdateConfiguration(ctx, tx, cfg); err != nil {
		return err
	}

	for i := range data.AssetConfigs {
		if err := s.ensureCollateralToken(ctx, tx, market, &data.AssetConfigs[i]); err != nil {
			return err
		}
	}

	if err := s.refreshRewardConfiguration(ctx, tx, market, ev); err != nil {
		return err
	}

	return s.snapshotService.MarketConfiguration(ctx, tx, cfg, ev)
}

func (s *marketService) loadConfiguration(ctx context.Context, market *core.Market) (*core.MarketConfiguration, bool, error) {
	cfg, err := s.marketStore.FindConfiguration(ctx, market.ConfigurationID)
	if gorm.IsRecordNotFoundError(err) {
		return &core.MarketConfiguration{
			ID:       market.ConfigurationID,
			MarketID: market.ID,
		}, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

func (s *marketService) ensureBaseToken(ctx context.Context, tx *db.DB, market *core.Market, data *core.MarketConfigData) (string, error) {
	log := logger.FromContext(ctx).WithField("service", "market")

	addr := core.AddressID(data.BaseToken)
	tokenID := core.TokenID(addr, core.TokenKindBase)

	if _, err := s.tokenStore.Find(ctx, tokenID); gorm.IsRecordNotFoundError(err) {
		info, err := s.chain.TokenInfo(ctx, data.BaseToken)
		if err != nil {
			log.WithError(err).Warningln("base token metadata read failed")
			info = &core.TokenInfo{Decimals: 18}
		}
		token := &core.Token{
			ID:       tokenID,
			Address:  addr,
			Kind:     core.TokenKindBase,
			Name:     info.Name,
			Symbol:   info.Symbol,
			Decimals: info.Decimals,
		}
		if err := s.tokenStore.Save(ctx, tx, token); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	baseID := core.BaseTokenID(market.ID)
	base, err := s.tokenStore.FindBase(ctx, market.ID)
	if gorm.IsRecordNotFoundError(err) {
		base = &core.BaseToken{
			ID:        baseID,
			MarketID:  market.ID,
			TokenID:   tokenID,
			PriceFeed: core.AddressID(data.BaseTokenPriceFeed),
		}
		return baseID, s.tokenStore.SaveBase(ctx, tx, base)
	}
	if err != nil {
		return "", err
	}

	base.TokenID = tokenID
	base.PriceFeed = core.AddressID(data.BaseTokenPriceFeed)
	return baseID, s.tokenStore.UpdateBase(ctx, tx, base)
}

func (s *marketService) ensureCollateralToken(ctx context.Context, tx *db.DB, market *core.Market, info *core.AssetInfo) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	addr := core.AddressID(info.Asset)
	tokenID := core.TokenID(addr, core.TokenKindCollateral)

	if _, err := s.tokenStore.Find(ctx, tokenID); gorm.IsRecordNotFoundError(err) {
		meta, err := s.chain.TokenInfo(ctx, info.Asset)
		if err != nil {
			log.WithError(err).Warningln("collateral token metadata read failed")
			meta = &core.TokenInfo{Decimals: 18}
		}
		token := &core.Token{
			ID:       tokenID,
			Address:  addr,
			Kind:     core.TokenKindCollateral,
			Name:     meta.Name,
			Symbol:   meta.Symbol,
			Decimals: meta.Decimals,
		}
		if err := s.tokenStore.Save(ctx, tx, token); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	col, err := s.tokenStore.FindCollateral(ctx, market.ID, addr)
	if gorm.IsRecordNotFoundError(err) {
		col = &core.CollateralToken{
			ID:       core.CollateralTokenID(market.ID, addr),
			MarketID: market.ID,
			TokenID:  tokenID,
		}
		applyAssetInfo(col, info)
		return s.tokenStore.SaveCollateral(ctx, tx, col)
	}
	if err != nil {
		return err
	}

	applyAssetInfo(col, info)
	return s.tokenStore.UpdateCollateral(ctx, tx, col)
}

func applyAssetInfo(col *core.CollateralToken, info *core.AssetInfo) {
	col.PriceFeed = core.AddressID(info.PriceFeed)
	col.BorrowCollateralFactor = info.BorrowCollateralFactor
	col.LiquidateCollateralFactor = info.LiquidateCollateralFactor
	col.LiquidationFactor = info.LiquidationFactor
	col.SupplyCap = info.SupplyCap
}

func (s *marketService) refreshRewardConfiguration(ctx context.Context, tx *db.DB, market *core.Market, ev *core.Event) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	if s.cfg.Protocol.Rewards == "" {
		return nil
	}

	data, err := s.chain.RewardConfig(ctx, common.HexToAddress(s.cfg.Protocol.Rewards), common.HexToAddress(market.CometProxy), ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("reward configuration read failed, kept as is")
		return nil
	}

	// not configured yet on the rewards contract, the next refresh retries
	if data.Token == (common.Address{}) {
		return nil
	}

	addr := core.AddressID(data.Token)
	id := core.ComposeID(market.ID, addr)

	tokenID := core.TokenID(addr, core.TokenKindReward)
	if _, err := s.tokenStore.Find(ctx, tokenID); gorm.IsRecordNotFoundError(err) {
		meta, err := s.chain.TokenInfo(ctx, data.Token)
		if err != nil {
			log.WithError(err).Warningln("reward token metadata read failed")
			meta = &core.TokenInfo{Decimals: 18}
		}
		token := &core.Token{
			ID:       tokenID,
			Address:  addr,
			Kind:     core.TokenKindReward,
			Name:     meta.Name,
			Symbol:   meta.Symbol,
			Decimals: meta.Decimals,
		}
		if err := s.tokenStore.Save(ctx, tx, token); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	reward, err := s.marketStore.FindRewardConfiguration(ctx, id)
	if gorm.IsRecordNotFoundError(err) {
		reward = &core.MarketRewardConfiguration{
			ID:            id,
			MarketID:      market.ID,
			TokenAddress:  addr,
			RescaleFactor: data.RescaleFactor,
			ShouldUpscale: data.ShouldUpscale,
			Multiplier:    data.Multiplier,
		}
		return s.marketStore.SaveRewardConfiguration(ctx, tx, reward)
	}
	if err != nil {
		return err
	}

	reward.TokenAddress = addr
	reward.RescaleFactor = data.RescaleFactor
	reward.ShouldUpscale = data.ShouldUpscale
	reward.Multiplier = data.Multiplier
	return s.marketStore.UpdateRewardConfiguration(ctx, tx, reward)
}
