package usage

import (
	"context"
	"testing"

	"cometindex/core"
	"cometindex/internal/comet"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsageStore struct {
	usages map[string]*core.Usage
	active map[string]bool
}

func newMemoryUsageStore() *memoryUsageStore {
	return &memoryUsageStore{
		usages: make(map[string]*core.Usage),
		active: make(map[string]bool),
	}
}

func (s *memoryUsageStore) Save(ctx context.Context, tx *db.DB, usage *core.Usage) error {
	clone := *usage
	s.usages[usage.ID] = &clone
	return nil
}

func (s *memoryUsageStore) Find(ctx context.Context, id string) (*core.Usage, error) {
	usage, ok := s.usages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *usage
	return &clone, nil
}

func (s *memoryUsageStore) Update(ctx context.Context, tx *db.DB, usage *core.Usage) error {
	clone := *usage
	s.usages[usage.ID] = &clone
	return nil
}

func (s *memoryUsageStore) MarkActive(ctx context.Context, tx *db.DB, id string) (bool, error) {
	if s.active[id] {
		return false, nil
	}
	s.active[id] = true
	return true, nil
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	store := newMemoryUsageStore()
	service := New(store)

	marketID := "0x00000000000000000000000000000000000000c3"
	alice := "0x00000000000000000000000000000000000000aa"
	bob := "0x00000000000000000000000000000000000000bb"

	ts := int64(1_700_000_000)
	ev := &core.Event{Timestamp: ts}

	require.NoError(t, service.Record(ctx, nil, marketID, alice, core.InteractionSupplyBase, ev))
	require.NoError(t, service.Record(ctx, nil, marketID, alice, core.InteractionWithdrawBase, ev))
	require.NoError(t, service.Record(ctx, nil, marketID, bob, core.InteractionSupplyBase, ev))

	hour := core.Bucket(ts, comet.SecondsPerHour)
	day := core.Bucket(ts, comet.SecondsPerDay)

	scopes := []string{
		core.ProtocolUsageID(),
		core.ProtocolHourlyUsageID(hour),
		core.ProtocolDailyUsageID(day),
		core.MarketUsageID(marketID),
		core.MarketHourlyUsageID(marketID, hour),
		core.MarketDailyUsageID(marketID, day),
	}
	assert.Len(t, store.usages, len(scopes))

	for _, scope := range scopes {
		usage, err := store.Find(ctx, scope)
		require.NoError(t, err, scope)
		assert.Equal(t, int64(3), usage.InteractionCount, scope)
		assert.Equal(t, int64(2), usage.UniqueUsersCount, scope)
		assert.Equal(t, int64(2), usage.SupplyBaseCount, scope)
		assert.Equal(t, int64(1), usage.WithdrawBaseCount, scope)
	}
}

func TestRecordNewHourResetsActivity(t *testing.T) {
	ctx := context.Background()
	store := newMemoryUsageStore()
	service := New(store)

	marketID := "0x00000000000000000000000000000000000000c3"
	alice := "0x00000000000000000000000000000000000000aa"

	ts := int64(1_700_000_000)
	require.NoError(t, service.Record(ctx, nil, marketID, alice, core.InteractionSupplyBase, &core.Event{Timestamp: ts}))
	require.NoError(t, service.Record(ctx, nil, marketID, alice, core.InteractionSupplyBase, &core.Event{Timestamp: ts + comet.SecondsPerHour}))

	cumulative, err := store.Find(ctx, core.MarketUsageID(marketID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cumulative.UniqueUsersCount)
	assert.Equal(t, int64(2), cumulative.InteractionCount)

	firstHour, err := store.Find(ctx, core.MarketHourlyUsageID(marketID, core.Bucket(ts, comet.SecondsPerHour)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), firstHour.UniqueUsersCount)
	assert.Equal(t, int64(1), firstHour.InteractionCount)

	secondHour, err := store.Find(ctx, core.MarketHourlyUsageID(marketID, core.Bucket(ts+comet.SecondsPerHour, comet.SecondsPerHour)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), secondHour.UniqueUsersCount)
	assert.Equal(t, int64(1), secondHour.InteractionCount)
}
