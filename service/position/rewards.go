package position

import (
	"context"

	"cometindex/core"
	"cometindex/internal/comet"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// AttributeRewardClaim credits a claim to the one open position whose
// tracking index equals its market's live tracking index on a leg with a
// nonzero tracking speed. The heuristic breaks down for batched claims
// spanning several positions, so anything but exactly one match is left
// unattributed.
func (s *positionService) AttributeRewardClaim(ctx context.Context, tx *db.DB, ev *core.Event) (*core.Position, error) {
	log := logger.FromContext(ctx).WithField("service", "position")

	claim := ev.RewardClaimed
	accountID := core.AddressID(claim.Src)
	tokenAddr := core.AddressID(claim.Token)

	positions, err := s.positionStore.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var match *core.Position
	matches := 0
	for _, p := range positions {
		ok, err := s.positionEligible(ctx, p, tokenAddr)
		if err != nil {
			return nil, err
		}
		if ok {
			match = p
			matches++
		}
	}

	if matches != 1 {
		log.WithField("account", accountID).
			WithField("matches", matches).
			Warningln("reward claim left unattributed")
		return nil, nil
	}

	acc, err := s.positionStore.FindAccounting(ctx, match.AccountingID)
	if err != nil {
		return nil, err
	}

	acc.CumulativeRewardsClaimed = acc.CumulativeRewardsClaimed.Add(claim.Amount)

	decimals, price := s.rewardTokenValue(ctx, tokenAddr, ev)
	acc.CumulativeRewardsClaimedUsd = acc.CumulativeRewardsClaimedUsd.
		Add(comet.TokenValueUsd(claim.Amount, decimals, price))
	acc.BlockNumber = ev.BlockNumber
	acc.Timestamp = ev.Timestamp

	if err := s.positionStore.UpdateAccounting(ctx, tx, acc); err != nil {
		return nil, err
	}

	if err := s.snapshotService.PositionAccounting(ctx, tx, acc, ev); err != nil {
		return nil, err
	}
	return match, nil
}

// positionEligible reports whether a position could have accrued the
// claimed token: its market pays that token on a leg whose tracking speed
// is nonzero and whose live tracking index equals the position's.
func (s *positionService) positionEligible(ctx context.Context, p *core.Position, tokenAddr string) (bool, error) {
	rewards, err := s.marketStore.ListRewardConfigurations(ctx, p.MarketID)
	if err != nil {
		return false, err
	}
	paysToken := false
	for _, r := range rewards {
		if r.TokenAddress == tokenAddr {
			paysToken = true
			break
		}
	}
	if !paysToken {
		return false, nil
	}

	cfg, err := s.marketStore.FindConfiguration(ctx, p.MarketID)
	if err != nil {
		return false, err
	}
	acc, err := s.marketStore.FindAccounting(ctx, p.MarketID)
	if err != nil {
		return false, err
	}

	if !cfg.BaseTrackingSupplySpeed.IsZero() && p.BaseTrackingIndex.Cmp(acc.TrackingSupplyIndex) == 0 {
		return true, nil
	}
	if !cfg.BaseTrackingBorrowSpeed.IsZero() && p.BaseTrackingIndex.Cmp(acc.TrackingBorrowIndex) == 0 {
		return true, nil
	}
	return false, nil
}

// rewardTokenValue resolves the claimed token's decimals and USD price,
// both degrading to defaults on failure.
func (s *positionService) rewardTokenValue(ctx context.Context, tokenAddr string, ev *core.Event) (uint8, decimal.Decimal) {
	log := logger.FromContext(ctx).WithField("service", "position")

	decimals := uint8(18)
	token, err := s.tokenStore.Find(ctx, core.TokenID(tokenAddr, core.TokenKindReward))
	if err == nil {
		decimals = token.Decimals
	} else if !gorm.IsRecordNotFoundError(err) {
		log.WithError(err).Warningln("reward token lookup failed")
	}

	price := decimal.Zero
	if s.cfg.Protocol.RewardTokenPriceFeed != "" {
		p, err := s.priceService.PriceFeedUsd(ctx, nil, s.cfg.Protocol.RewardTokenPriceFeed, ev.BlockNumber)
		if err != nil {
			log.WithError(err).Warningln("reward token price failed, valued at zero")
		} else {
			price = p
		}
	}
	return decimals, price
}
