package snapshot

import (
	"context"
	"testing"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySnapshotStore struct {
	marketSnapshots map[string]*core.MarketAccountingSnapshot
	marketFrozen    map[string]*core.MarketAccounting

	protocolSnapshots map[string]*core.ProtocolAccountingSnapshot
	positionSnapshots map[string]*core.PositionAccountingSnapshot
	configSnapshots   map[string]*core.MarketConfigurationSnapshot
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{
		marketSnapshots:   make(map[string]*core.MarketAccountingSnapshot),
		marketFrozen:      make(map[string]*core.MarketAccounting),
		protocolSnapshots: make(map[string]*core.ProtocolAccountingSnapshot),
		positionSnapshots: make(map[string]*core.PositionAccountingSnapshot),
		configSnapshots:   make(map[string]*core.MarketConfigurationSnapshot),
	}
}

func (s *memorySnapshotStore) SaveMarketSnapshot(ctx context.Context, tx *db.DB, snapshot *core.MarketAccountingSnapshot, frozen *core.MarketAccounting) error {
	if _, ok := s.marketSnapshots[snapshot.ID]; ok {
		return nil
	}
	s.marketSnapshots[snapshot.ID] = snapshot
	s.marketFrozen[snapshot.ID] = frozen
	return nil
}

func (s *memorySnapshotStore) FindMarketSnapshot(ctx context.Context, id string) (*core.MarketAccountingSnapshot, error) {
	snapshot, ok := s.marketSnapshots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return snapshot, nil
}

func (s *memorySnapshotStore) SaveProtocolSnapshot(ctx context.Context, tx *db.DB, snapshot *core.ProtocolAccountingSnapshot, frozen *core.ProtocolAccounting) error {
	if _, ok := s.protocolSnapshots[snapshot.ID]; ok {
		return nil
	}
	s.protocolSnapshots[snapshot.ID] = snapshot
	return nil
}

func (s *memorySnapshotStore) FindProtocolSnapshot(ctx context.Context, id string) (*core.ProtocolAccountingSnapshot, error) {
	snapshot, ok := s.protocolSnapshots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return snapshot, nil
}

func (s *memorySnapshotStore) SavePositionSnapshot(ctx context.Context, tx *db.DB, snapshot *core.PositionAccountingSnapshot, frozen *core.PositionAccounting) error {
	if _, ok := s.positionSnapshots[snapshot.ID]; ok {
		return nil
	}
	s.positionSnapshots[snapshot.ID] = snapshot
	return nil
}

func (s *memorySnapshotStore) FindPositionSnapshot(ctx context.Context, id string) (*core.PositionAccountingSnapshot, error) {
	snapshot, ok := s.positionSnapshots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return snapshot, nil
}

func (s *memorySnapshotStore) SaveConfigurationSnapshot(ctx context.Context, tx *db.DB, snapshot *core.MarketConfigurationSnapshot, frozen *core.MarketConfiguration) error {
	if _, ok := s.configSnapshots[snapshot.ID]; ok {
		return nil
	}
	s.configSnapshots[snapshot.ID] = snapshot
	return nil
}

func (s *memorySnapshotStore) FindConfigurationSnapshot(ctx context.Context, id string) (*core.MarketConfigurationSnapshot, error) {
	snapshot, ok := s.configSnapshots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return snapshot, nil
}

func TestMarketAccountingFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	store := newMemorySnapshotStore()
	service := New(store)

	marketID := "0x00000000000000000000000000000000000000c3"

	ts := int64(1_700_000_000)
	first := &core.MarketAccounting{
		ID:                 marketID,
		MarketID:           marketID,
		TotalBaseSupplyUsd: decimal.RequireFromString("100"),
	}
	require.NoError(t, service.MarketAccounting(ctx, nil, first, &core.Event{Timestamp: ts}))

	// hour, day and week snapshots cut in one pass
	assert.Len(t, store.marketSnapshots, 3)

	hourID := core.BucketID(core.ComposeID(marketID, "hour"), core.Bucket(ts, 3600))
	snapshot, err := store.FindMarketSnapshot(ctx, hourID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, snapshot.AccountingID)
	assert.Equal(t, snapshot.ID, store.marketFrozen[hourID].ID)
	assert.Equal(t, "100", store.marketFrozen[hourID].TotalBaseSupplyUsd.String())

	// a later event in the same hour leaves the snapshot frozen
	second := &core.MarketAccounting{
		ID:                 marketID,
		MarketID:           marketID,
		TotalBaseSupplyUsd: decimal.RequireFromString("250"),
	}
	require.NoError(t, service.MarketAccounting(ctx, nil, second, &core.Event{Timestamp: ts + 60}))
	assert.Len(t, store.marketSnapshots, 3)
	assert.Equal(t, "100", store.marketFrozen[hourID].TotalBaseSupplyUsd.String())

	// the next hour opens a fresh bucket
	require.NoError(t, service.MarketAccounting(ctx, nil, second, &core.Event{Timestamp: ts + 3600}))
	assert.Len(t, store.marketSnapshots, 4)
}

func TestMarketConfigurationSnapshotKey(t *testing.T) {
	ctx := context.Background()
	store := newMemorySnapshotStore()
	service := New(store)

	cfg := &core.MarketConfiguration{ID: "m", MarketID: "m"}
	ev := &core.Event{BlockNumber: 17000000, LogIndex: 42, Timestamp: 1_700_000_000}
	require.NoError(t, service.MarketConfiguration(ctx, nil, cfg, ev))

	snapshot, err := store.FindConfigurationSnapshot(ctx, "m:17000000:42")
	require.NoError(t, err)
	assert.Equal(t, uint64(17000000), snapshot.BlockNumber)
	assert.Equal(t, uint(42), snapshot.LogIndex)
}
