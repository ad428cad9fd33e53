package usage

import (
	"context"

	"cometindex/core"
	"cometindex/internal/comet"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type usageService struct {
	usageStore core.IUsageStore
}

// New new usage service
func New(usageStore core.IUsageStore) core.IUsageService {
	return &usageService{usageStore: usageStore}
}

// Record counts one interaction against the six scopes of a market: the
// protocol and the market, each cumulative, hourly and daily.
func (s *usageService) Record(ctx context.Context, tx *db.DB, marketID, address string, kind core.InteractionKind, ev *core.Event) error {
	hour := core.Bucket(ev.Timestamp, comet.SecondsPerHour)
	day := core.Bucket(ev.Timestamp, comet.SecondsPerDay)

	scopes := []string{
		core.ProtocolUsageID(),
		core.ProtocolHourlyUsageID(hour),
		core.ProtocolDailyUsageID(day),
		core.MarketUsageID(marketID),
		core.MarketHourlyUsageID(marketID, hour),
		core.MarketDailyUsageID(marketID, day),
	}

	for _, scope := range scopes {
		if err := s.recordScope(ctx, tx, scope, address, kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *usageService) recordScope(ctx context.Context, tx *db.DB, scope, address string, kind core.InteractionKind) error {
	usage, err := s.usageStore.Find(ctx, scope)
	created := false
	if gorm.IsRecordNotFoundError(err) {
		usage = &core.Usage{ID: scope}
		created = true
	} else if err != nil {
		return err
	}

	fresh, err := s.usageStore.MarkActive(ctx, tx, core.ActiveAccountID(scope, address))
	if err != nil {
		return err
	}
	if fresh {
		usage.UniqueUsersCount++
	}

	usage.InteractionCount++
	s.bump(ctx, usage, kind)

	if created {
		return s.usageStore.Save(ctx, tx, usage)
	}
	return s.usageStore.Update(ctx, tx, usage)
}

func (s *usageService) bump(ctx context.Context, usage *core.Usage, kind core.InteractionKind) {
	switch kind {
	case core.InteractionSupplyBase:
		usage.SupplyBaseCount++
	case core.InteractionWithdrawBase:
		usage.WithdrawBaseCount++
	case core.InteractionLiquidation:
		usage.LiquidationCount++
	case core.InteractionSupplyCollateral:
		usage.SupplyCollateralCount++
	case core.InteractionWithdrawCollateral:
		usage.WithdrawCollateralCount++
	case core.InteractionTransferCollateral:
		usage.TransferCollateralCount++
	case core.InteractionTransferBase:
		usage.TransferBaseCount++
	case core.InteractionRewardClaim:
		usage.RewardClaimCount++
	default:
		// generic counters already incremented, nothing else to do
		logger.FromContext(ctx).WithField("service", "usage").
			WithField("kind", string(kind)).
			WithError(core.ErrUnknownInteraction).
			Warningln("usage kind not counted")
	}
}
