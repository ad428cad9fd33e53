package protocol

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

type memoryProtocolStore struct {
	protocol   *core.Protocol
	accounting *core.ProtocolAccounting
}

func (s *memoryProtocolStore) Save(ctx context.Context, tx *db.DB, protocol *core.Protocol) error {
	clone := *protocol
	s.protocol = &clone
	return nil
}

func (s *memoryProtocolStore) Find(ctx context.Context) (*core.Protocol, error) {
	if s.protocol == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.protocol
	return &clone, nil
}

func (s *memoryProtocolStore) Update(ctx context.Context, tx *db.DB, protocol *core.Protocol) error {
	clone := *protocol
	s.protocol = &clone
	return nil
}

func (s *memoryProtocolStore) SaveAccounting(ctx context.Context, tx *db.DB, acc *core.ProtocolAccounting) error {
	clone := *acc
	s.accounting = &clone
	return nil
}

func (s *memoryProtocolStore) FindAccounting(ctx context.Context) (*core.ProtocolAccounting, error) {
	if s.accounting == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.accounting
	return &clone, nil
}

func (s *memoryProtocolStore) UpdateAccounting(ctx context.Context, tx *db.DB, acc *core.ProtocolAccounting) error {
	clone := *acc
	s.accounting = &clone
	return nil
}

type stubMarketStore struct {
	core.IMarketStore
	accountings []*core.MarketAccounting
}

func (s *stubMarketStore) AllAccountings(ctx context.Context) ([]*core.MarketAccounting, error) {
	return s.accountings, nil
}

type noopSnapshotService struct{}

func (noopSnapshotService) MarketAccounting(ctx context.Context, tx *db.DB, acc *core.MarketAccounting, ev *core.Event) error {
	return nil
}

func (noopSnapshotService) ProtocolAccounting(ctx context.Context, tx *db.DB, acc *core.ProtocolAccounting, ev *core.Event) error {
	return nil
}

func (noopSnapshotService) PositionAccounting(ctx context.Context, tx *db.DB, acc *core.PositionAccounting, ev *core.Event) error {
	return nil
}

func (noopSnapshotService) MarketConfiguration(ctx context.Context, tx *db.DB, cfg *core.MarketConfiguration, ev *core.Event) error {
	return nil
}

func marketAccounting(supplyUsd, borrowUsd, supplyApr, borrowApr string) *core.MarketAccounting {
	return &core.MarketAccounting{
		TotalBaseSupplyUsd: decimal.RequireFromString(supplyUsd),
		TotalBaseBorrowUsd: decimal.RequireFromString(borrowUsd),
		SupplyApr:          decimal.RequireFromString(supplyApr),
		BorrowApr:          decimal.RequireFromString(borrowApr),
		NetSupplyApr:       decimal.RequireFromString(supplyApr),
		NetBorrowApr:       decimal.RequireFromString(borrowApr),
	}
}

func TestUpdateAccounting(t *testing.T) {
	ctx := context.Background()
	protocolStore := &memoryProtocolStore{}
	marketStore := &stubMarketStore{accountings: []*core.MarketAccounting{
		marketAccounting("900", "300", "0.02", "0.04"),
		marketAccounting("100", "100", "0.06", "0.08"),
	}}

	cfg := &core.Config{}
	service := New(cfg, protocolStore, marketStore, noopSnapshotService{})

	ev := &core.Event{BlockNumber: 123, Timestamp: 456}
	require.NoError(t, service.UpdateAccounting(ctx, nil, ev))

	acc := protocolStore.accounting
	require.NotNil(t, acc)

	assert.Equal(t, "1000", acc.TotalSupplyUsd.String())
	assert.Equal(t, "400", acc.TotalBorrowUsd.String())
	assert.Equal(t, "0.4", acc.Utilization.String())
	assert.Equal(t, "2.5", acc.Collateralization.String())

	// (0.02*900 + 0.06*100) / 1000
	assert.Equal(t, "0.024", acc.AvgSupplyApr.String())
	// (0.04*300 + 0.08*100) / 400
	assert.Equal(t, "0.05", acc.AvgBorrowApr.String())

	assert.Equal(t, uint64(123), acc.BlockNumber)
	assert.Equal(t, int64(456), acc.Timestamp)
}

func TestUpdateAccountingEmpty(t *testing.T) {
	ctx := context.Background()
	protocolStore := &memoryProtocolStore{}
	marketStore := &stubMarketStore{}

	service := New(&core.Config{}, protocolStore, marketStore, noopSnapshotService{})
	require.NoError(t, service.UpdateAccounting(ctx, nil, &core.Event{}))

	acc := protocolStore.accounting
	require.NotNil(t, acc)
	assert.True(t, acc.Utilization.IsZero())
	assert.True(t, acc.AvgSupplyApr.IsZero())
}

func TestRegisterMarket(t *testing.T) {
	ctx := context.Background()
	protocolStore := &memoryProtocolStore{}

	service := New(&core.Config{Protocol: core.ProtocolCfg{Configurator: "0xconf"}}, protocolStore, &stubMarketStore{}, noopSnapshotService{})

	require.NoError(t, service.RegisterMarket(ctx, nil, &core.Event{}))
	require.NoError(t, service.RegisterMarket(ctx, nil, &core.Event{}))

	assert.Equal(t, int64(2), protocolStore.protocol.MarketCount)
	assert.Equal(t, "0xconf", protocolStore.protocol.Configurator)
}
