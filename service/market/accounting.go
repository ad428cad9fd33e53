package market

import (
	"context"

	"cometindex/core"
	"cometindex/internal/comet"
	"cometindex/pkg/bigint"
	"cometindex/pkg/fixedpoint"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// UpdateAccounting refreshes the market's raw totals from the chain,
// recomputes every derived figure and rolls the result up into the
// protocol aggregate and the time snapshots.
func (s *marketService) UpdateAccounting(ctx context.Context, tx *db.DB, market *core.Market, ev *core.Event, changes ...*core.PrincipalChange) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	acc, err := s.marketStore.FindAccounting(ctx, market.AccountingID)
	if err != nil {
		return err
	}
	cfg, err := s.marketStore.FindConfiguration(ctx, market.ConfigurationID)
	if err != nil {
		return err
	}

	proxy := common.HexToAddress(market.CometProxy)

	totals, err := s.chain.TotalsBasic(ctx, proxy, ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("totalsBasic read failed, rolling stored totals forward")
		applyPrincipalChanges(acc, changes)
	} else {
		acc.BaseSupplyIndex = totals.BaseSupplyIndex
		acc.BaseBorrowIndex = totals.BaseBorrowIndex
		acc.TrackingSupplyIndex = totals.TrackingSupplyIndex
		acc.TrackingBorrowIndex = totals.TrackingBorrowIndex
		acc.TotalBasePrincipalSupply = totals.TotalSupplyBase
		acc.TotalBasePrincipalBorrow = totals.TotalBorrowBase
		acc.LastAccrualTime = totals.LastAccrualTime
	}

	acc.TotalBaseSupply = fixedpoint.PresentValue(acc.TotalBasePrincipalSupply, acc.BaseSupplyIndex, comet.BaseIndexScale)
	acc.TotalBaseBorrow = fixedpoint.PresentValue(acc.TotalBasePrincipalBorrow, acc.BaseBorrowIndex, comet.BaseIndexScale)

	reserves, err := s.chain.Reserves(ctx, proxy, ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("reserves read failed, kept")
	} else {
		acc.BaseReserveBalance = reserves
	}

	base, err := s.tokenStore.FindBase(ctx, market.ID)
	if err != nil {
		return err
	}
	baseToken, err := s.tokenStore.Find(ctx, base.TokenID)
	if err != nil {
		return err
	}

	basePrice, err := s.priceService.TokenPriceUsd(ctx, market, base.TokenID, base.PriceFeed, ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("base price failed, USD totals zeroed")
		basePrice = decimal.Zero
	}
	if err := s.updateBasePrice(ctx, tx, base, basePrice, ev); err != nil {
		return err
	}

	acc.TotalBaseSupplyUsd = comet.TokenValueUsd(acc.TotalBaseSupply, baseToken.Decimals, basePrice)
	acc.TotalBaseBorrowUsd = comet.TokenValueUsd(acc.TotalBaseBorrow, baseToken.Decimals, basePrice)
	acc.BaseReserveBalanceUsd = comet.TokenValueUsd(acc.BaseReserveBalance, baseToken.Decimals, basePrice)

	acc.Utilization = fixedpoint.SafeDivDecimal(acc.TotalBaseBorrow.Decimal(), acc.TotalBaseSupply.Decimal())

	acc.SupplyApr = comet.ComputeApr(
		acc.Utilization,
		comet.FormatUnits(cfg.SupplyKink, 18),
		cfg.SupplyPerSecondInterestRateBase,
		cfg.SupplyPerSecondInterestRateSlopeLow,
		cfg.SupplyPerSecondInterestRateSlopeHigh,
	)
	acc.BorrowApr = comet.ComputeApr(
		acc.Utilization,
		comet.FormatUnits(cfg.BorrowKink, 18),
		cfg.BorrowPerSecondInterestRateBase,
		cfg.BorrowPerSecondInterestRateSlopeLow,
		cfg.BorrowPerSecondInterestRateSlopeHigh,
	)

	if err := s.refreshCollateralBalances(ctx, tx, market, acc, ev); err != nil {
		return err
	}

	if err := s.computeRewardAprs(ctx, market, cfg, acc, ev); err != nil {
		return err
	}

	acc.TotalReserveBalanceUsd = acc.BaseReserveBalanceUsd.Add(acc.CollateralReservesBalanceUsd)
	acc.Collateralization = fixedpoint.SafeDivDecimal(acc.TotalBaseSupplyUsd, acc.TotalBaseBorrowUsd)

	acc.NetSupplyApr = acc.SupplyApr.Add(acc.RewardSupplyApr)
	acc.NetBorrowApr = acc.BorrowApr.Sub(acc.RewardBorrowApr)

	acc.BlockNumber = ev.BlockNumber
	acc.Timestamp = ev.Timestamp

	if err := s.marketStore.UpdateAccounting(ctx, tx, acc); err != nil {
		return err
	}

	market.LatestBlock = ev.BlockNumber
	market.LatestTimestamp = ev.Timestamp
	if err := s.marketStore.Update(ctx, tx, market); err != nil {
		return err
	}

	if err := s.snapshotService.MarketAccounting(ctx, tx, acc, ev); err != nil {
		return err
	}

	// always a full re-sum, market counts are small
	return s.protocolService.UpdateAccounting(ctx, tx, ev)
}

// applyPrincipalChanges folds the event's supply and borrow leg deltas into
// the stored principal totals. Totals are sums of magnitudes and never go
// negative, a leg that would push one below zero clamps it there.
func applyPrincipalChanges(acc *core.MarketAccounting, changes []*core.PrincipalChange) {
	for _, change := range changes {
		if change == nil {
			continue
		}

		supply, neg := fixedpoint.SignedAdd(acc.TotalBasePrincipalSupply, false, change.SupplyChange, change.SupplyChangeIsNeg)
		if neg {
			supply = bigint.New(0)
		}
		acc.TotalBasePrincipalSupply = supply

		borrow, neg := fixedpoint.SignedAdd(acc.TotalBasePrincipalBorrow, false, change.BorrowChange, change.BorrowChangeIsNeg)
		if neg {
			borrow = bigint.New(0)
		}
		acc.TotalBasePrincipalBorrow = borrow
	}
}

func (s *marketService) updateBasePrice(ctx context.Context, tx *db.DB, base *core.BaseToken, price decimal.Decimal, ev *core.Event) error {
	base.LastPriceUsd = price.String()
	base.LastPriceBlock = ev.BlockNumber
	base.LastPriceTime = ev.Timestamp
	return s.tokenStore.UpdateBase(ctx, tx, base)
}

// refreshCollateralBalances re-reads every collateral asset's market total
// and reserve portion, prices them and sums the USD figures into the
// accounting.
func (s *marketService) refreshCollateralBalances(ctx context.Context, tx *db.DB, market *core.Market, acc *core.MarketAccounting, ev *core.Event) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	cols, err := s.tokenStore.ListCollateral(ctx, market.ID)
	if err != nil {
		return err
	}

	proxy := common.HexToAddress(market.CometProxy)
	balanceUsd := decimal.Zero
	reservesUsd := decimal.Zero

	for _, col := range cols {
		token, err := s.tokenStore.Find(ctx, col.TokenID)
		if err != nil {
			return err
		}

		totals, err := s.chain.TotalsCollateral(ctx, proxy, common.HexToAddress(token.Address), ev.BlockNumber)
		if err != nil {
			log.WithError(err).WithField("asset", token.Address).
				Warningln("totalsCollateral read failed, balance kept")
			continue
		}

		price, err := s.priceService.TokenPriceUsd(ctx, market, col.TokenID, col.PriceFeed, ev.BlockNumber)
		if err != nil {
			log.WithError(err).WithField("asset", token.Address).
				Warningln("collateral price failed, priced at zero")
			price = decimal.Zero
		}

		if err := s.updateCollateralPrice(ctx, tx, col, price, ev); err != nil {
			return err
		}

		id := core.MarketCollateralBalanceID(market.ID, token.Address)
		bal, err := s.collateralStore.FindMarketBalance(ctx, id)
		created := false
		if gorm.IsRecordNotFoundError(err) {
			bal = &core.MarketCollateralBalance{
				ID:                id,
				MarketID:          market.ID,
				CollateralTokenID: col.ID,
			}
			created = true
		} else if err != nil {
			return err
		}

		bal.BlockNumber = ev.BlockNumber
		bal.Timestamp = ev.Timestamp
		bal.Balance = totals.TotalSupplyAsset
		bal.Reserves = totals.Reserved
		bal.BalanceUsd = comet.TokenValueUsd(bal.Balance, token.Decimals, price)
		bal.ReservesUsd = comet.TokenValueUsd(bal.Reserves, token.Decimals, price)

		if created {
			if err := s.collateralStore.SaveMarketBalance(ctx, tx, bal); err != nil {
				return err
			}
		} else if err := s.collateralStore.UpdateMarketBalance(ctx, tx, bal); err != nil {
			return err
		}

		balanceUsd = balanceUsd.Add(bal.BalanceUsd)
		reservesUsd = reservesUsd.Add(bal.ReservesUsd)
	}

	acc.CollateralBalanceUsd = balanceUsd
	acc.CollateralReservesBalanceUsd = reservesUsd
	return nil
}

func (s *marketService) updateCollateralPrice(ctx context.Context, tx *db.DB, col *core.CollateralToken, price decimal.Decimal, ev *core.Event) error {
	col.LastPriceUsd = price.String()
	col.LastPriceBlock = ev.BlockNumber
	col.LastPriceTime = ev.Timestamp
	return s.tokenStore.UpdateCollateral(ctx, tx, col)
}

// computeRewardAprs values the reward emissions of both legs against the
// market's USD totals. Markets below the reward minimum earn nothing.
func (s *marketService) computeRewardAprs(ctx context.Context, market *core.Market, cfg *core.MarketConfiguration, acc *core.MarketAccounting, ev *core.Event) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	acc.RewardSupplyApr = decimal.Zero
	acc.RewardBorrowApr = decimal.Zero

	rewards, err := s.marketStore.ListRewardConfigurations(ctx, market.ID)
	if err != nil {
		return err
	}
	if len(rewards) == 0 || s.cfg.Protocol.RewardTokenPriceFeed == "" {
		return nil
	}

	rewardPrice, err := s.priceService.PriceFeedUsd(ctx, market, s.cfg.Protocol.RewardTokenPriceFeed, ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("reward token price failed, reward APRs zeroed")
		return nil
	}

	for _, reward := range rewards {
		decimals := s.rewardTokenDecimals(ctx, reward.TokenAddress)

		acc.RewardSupplyApr = acc.RewardSupplyApr.Add(comet.RewardApr(
			cfg.BaseTrackingSupplySpeed, decimals, reward.Multiplier,
			rewardPrice, acc.TotalBaseSupply, acc.TotalBaseSupplyUsd, cfg.BaseMinForRewards,
		))
		acc.RewardBorrowApr = acc.RewardBorrowApr.Add(comet.RewardApr(
			cfg.BaseTrackingBorrowSpeed, decimals, reward.Multiplier,
			rewardPrice, acc.TotalBaseBorrow, acc.TotalBaseBorrowUsd, cfg.BaseMinForRewards,
		))
	}
	return nil
}

func (s *marketService) rewardTokenDecimals(ctx context.Context, addr string) uint8 {
	token, err := s.tokenStore.Find(ctx, core.TokenID(addr, core.TokenKindReward))
	if err != nil {
		return 18
	}
	return token.Decimals
}
