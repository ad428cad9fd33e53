package protocol

import (
	"context"

	"cometindex/core"
	"cometindex/pkg/fixedpoint"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type protocolService struct {
	cfg             *core.Config
	protocolStore   core.IProtocolStore
	marketStore     core.IMarketStore
	snapshotService core.ISnapshotService
}

// New new protocol service
func New(cfg *core.Config, protocolStore core.IProtocolStore, marketStore core.IMarketStore, snapshotService core.ISnapshotService) core.IProtocolService {
	return &protocolService{
		cfg:             cfg,
		protocolStore:   protocolStore,
		marketStore:     marketStore,
		snapshotService: snapshotService,
	}
}

func (s *protocolService) GetOrCreate(ctx context.Context, tx *db.DB, ev *core.Event) (*core.Protocol, error) {
	protocol, err := s.protocolStore.Find(ctx)
	if err == nil {
		return protocol, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	protocol = &core.Protocol{
		ID:           core.ProtocolID,
		Configurator: s.cfg.Protocol.Configurator,
		AccountingID: core.ProtocolID,
	}
	if err := s.protocolStore.Save(ctx, tx, protocol); err != nil {
		return nil, err
	}

	acc := &core.ProtocolAccounting{
		ID:          core.ProtocolID,
		ProtocolID:  core.ProtocolID,
		BlockNumber: ev.BlockNumber,
		Timestamp:   ev.Timestamp,
	}
	if err := s.protocolStore.SaveAccounting(ctx, tx, acc); err != nil {
		return nil, err
	}

	return protocol, nil
}

func (s *protocolService) RegisterMarket(ctx context.Context, tx *db.DB, ev *core.Event) error {
	protocol, err := s.GetOrCreate(ctx, tx, ev)
	if err != nil {
		return err
	}

	protocol.MarketCount++
	return s.protocolStore.Update(ctx, tx, protocol)
}

// UpdateAccounting re-sums every market accounting into the protocol
// aggregate. APRs are weighted by each market's USD total on the matching
// leg so a large market dominates the average.
func (s *protocolService) UpdateAccounting(ctx context.Context, tx *db.DB, ev *core.Event) error {
	if _, err := s.GetOrCreate(ctx, tx, ev); err != nil {
		return err
	}

	acc, err := s.protocolStore.FindAccounting(ctx)
	if err != nil {
		return err
	}

	markets, err := s.marketStore.AllAccountings(ctx)
	if err != nil {
		return err
	}

	supplyUsd := decimal.Zero
	borrowUsd := decimal.Zero
	baseReservesUsd := decimal.Zero
	collateralUsd := decimal.Zero
	collateralReservesUsd := decimal.Zero

	weightedSupplyApr := decimal.Zero
	weightedBorrowApr := decimal.Zero
	weightedRewardSupplyApr := decimal.Zero
	weightedRewardBorrowApr := decimal.Zero
	weightedNetSupplyApr := decimal.Zero
	weightedNetBorrowApr := decimal.Zero

	for _, m := range markets {
		supplyUsd = supplyUsd.Add(m.TotalBaseSupplyUsd)
		borrowUsd = borrowUsd.Add(m.TotalBaseBorrowUsd)
		baseReservesUsd = baseReservesUsd.Add(m.BaseReserveBalanceUsd)
		collateralUsd = collateralUsd.Add(m.CollateralBalanceUsd)
		collateralReservesUsd = collateralReservesUsd.Add(m.CollateralReservesBalanceUsd)

		weightedSupplyApr = weightedSupplyApr.Add(m.SupplyApr.Mul(m.TotalBaseSupplyUsd))
		weightedRewardSupplyApr = weightedRewardSupplyApr.Add(m.RewardSupplyApr.Mul(m.TotalBaseSupplyUsd))
		weightedNetSupplyApr = weightedNetSupplyApr.Add(m.NetSupplyApr.Mul(m.TotalBaseSupplyUsd))

		weightedBorrowApr = weightedBorrowApr.Add(m.BorrowApr.Mul(m.TotalBaseBorrowUsd))
		weightedRewardBorrowApr = weightedRewardBorrowApr.Add(m.RewardBorrowApr.Mul(m.TotalBaseBorrowUsd))
		weightedNetBorrowApr = weightedNetBorrowApr.Add(m.NetBorrowApr.Mul(m.TotalBaseBorrowUsd))
	}

	acc.TotalSupplyUsd = supplyUsd
	acc.TotalBorrowUsd = borrowUsd
	acc.TotalBaseReservesUsd = baseReservesUsd
	acc.TotalCollateralBalanceUsd = collateralUsd
	acc.TotalCollateralReservesUsd = collateralReservesUsd
	acc.TotalReserveBalanceUsd = baseReservesUsd.Add(collateralReservesUsd)

	acc.Utilization = fixedpoint.SafeDivDecimal(borrowUsd, supplyUsd)
	acc.Collateralization = fixedpoint.SafeDivDecimal(supplyUsd, borrowUsd)

	acc.AvgSupplyApr = fixedpoint.SafeDivDecimal(weightedSupplyApr, supplyUsd)
	acc.AvgRewardSupplyApr = fixedpoint.SafeDivDecimal(weightedRewardSupplyApr, supplyUsd)
	acc.AvgNetSupplyApr = fixedpoint.SafeDivDecimal(weightedNetSupplyApr, supplyUsd)
	acc.AvgBorrowApr = fixedpoint.SafeDivDecimal(weightedBorrowApr, borrowUsd)
	acc.AvgRewardBorrowApr = fixedpoint.SafeDivDecimal(weightedRewardBorrowApr, borrowUsd)
	acc.AvgNetBorrowApr = fixedpoint.SafeDivDecimal(weightedNetBorrowApr, borrowUsd)

	acc.BlockNumber = ev.BlockNumber
	acc.Timestamp = ev.Timestamp

	if err := s.protocolStore.UpdateAccounting(ctx, tx, acc); err != nil {
		return err
	}

	return s.snapshotService.ProtocolAccounting(ctx, tx, acc, ev)
}
