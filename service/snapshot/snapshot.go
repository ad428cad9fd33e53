package snapshot

import (
	"context"
	"fmt"

	"cometindex/core"
	"cometindex/internal/comet"

	"github.com/fox-one/pkg/store/db"
)

type snapshotService struct {
	snapshotStore core.ISnapshotStore
}

// New new snapshot service
func New(snapshotStore core.ISnapshotStore) core.ISnapshotService {
	return &snapshotService{snapshotStore: snapshotStore}
}

var bucketWidths = []struct {
	tag   string
	width int64
}{
	{"hour", comet.SecondsPerHour},
	{"day", comet.SecondsPerDay},
	{"week", comet.SecondsPerWeek},
}

func (s *snapshotService) MarketAccounting(ctx context.Context, tx *db.DB, acc *core.MarketAccounting, ev *core.Event) error {
	for _, b := range bucketWidths {
		bucket := core.Bucket(ev.Timestamp, b.width)
		id := core.BucketID(core.ComposeID(acc.MarketID, b.tag), bucket)

		snapshot := &core.MarketAccountingSnapshot{
			ID:           id,
			MarketID:     acc.MarketID,
			Bucket:       bucket,
			BucketWidth:  b.width,
			Timestamp:    ev.Timestamp,
			AccountingID: id,
		}
		if err := s.snapshotStore.SaveMarketSnapshot(ctx, tx, snapshot, acc.CloneWithoutID(id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *snapshotService) ProtocolAccounting(ctx context.Context, tx *db.DB, acc *core.ProtocolAccounting, ev *core.Event) error {
	for _, b := range bucketWidths {
		bucket := core.Bucket(ev.Timestamp, b.width)
		id := core.BucketID(core.ComposeID(acc.ProtocolID, b.tag), bucket)

		snapshot := &core.ProtocolAccountingSnapshot{
			ID:           id,
			Bucket:       bucket,
			BucketWidth:  b.width,
			Timestamp:    ev.Timestamp,
			AccountingID: id,
		}
		if err := s.snapshotStore.SaveProtocolSnapshot(ctx, tx, snapshot, acc.CloneWithoutID(id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *snapshotService) PositionAccounting(ctx context.Context, tx *db.DB, acc *core.PositionAccounting, ev *core.Event) error {
	for _, b := range bucketWidths {
		bucket := core.Bucket(ev.Timestamp, b.width)
		id := core.BucketID(core.ComposeID(acc.PositionID, b.tag), bucket)

		snapshot := &core.PositionAccountingSnapshot{
			ID:           id,
			PositionID:   acc.PositionID,
			Bucket:       bucket,
			BucketWidth:  b.width,
			Timestamp:    ev.Timestamp,
			AccountingID: id,
		}
		if err := s.snapshotStore.SavePositionSnapshot(ctx, tx, snapshot, acc.CloneWithoutID(id)); err != nil {
			return err
		}
	}
	return nil
}

// MarketConfiguration snapshots are audit records keyed by the exact chain
// coordinate of the change, not by a time bucket.
func (s *snapshotService) MarketConfiguration(ctx context.Context, tx *db.DB, cfg *core.MarketConfiguration, ev *core.Event) error {
	coordinate := core.CoordinateID(ev.BlockNumber, ev.LogIndex)
	id := fmt.Sprintf("%s:%s", cfg.MarketID, coordinate)

	snapshot := &core.MarketConfigurationSnapshot{
		ID:              id,
		MarketID:        cfg.MarketID,
		BlockNumber:     ev.BlockNumber,
		LogIndex:        ev.LogIndex,
		Timestamp:       ev.Timestamp,
		ConfigurationID: id,
	}
	return s.snapshotStore.SaveConfigurationSnapshot(ctx, tx, snapshot, cfg.CloneWithoutID(id))
}
