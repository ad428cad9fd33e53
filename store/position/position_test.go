package position

import (
	"context"
	"path/filepath"
	"testing"

	"cometindex/core"
	"cometindex/pkg/bigint"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(db.Config{
		Dialect:  "sqlite3",
		Host:     path,
		Database: path,
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

func TestUpdateFullRepaymentRoundTrip(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	store := New(database)

	position := &core.Position{
		ID:                      "0xc3:0xaa",
		MarketID:                "0xc3",
		AccountID:               "0xaa",
		BasePrincipal:           bigint.New(700),
		BasePrincipalIsNegative: true,
		AccountingID:            "0xc3:0xaa",
	}
	require.NoError(t, store.Save(ctx, database, position))

	// a repayment landing exactly on zero flips both columns back to
	// their zero values, which must survive the write
	position.BasePrincipal = bigint.New(0)
	position.BasePrincipalIsNegative = false
	require.NoError(t, store.Update(ctx, database, position))

	persisted, err := store.Find(ctx, position.ID)
	require.NoError(t, err)
	assert.True(t, persisted.BasePrincipal.IsZero())
	assert.False(t, persisted.BasePrincipalIsNegative)
	assert.Equal(t, int64(1), persisted.Version)
}

func TestUpdateAccountingBalanceReturnsToZero(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	store := New(database)

	acc := &core.PositionAccounting{
		ID:                    "0xc3:0xaa",
		PositionID:            "0xc3:0xaa",
		BaseBalance:           bigint.New(500),
		BaseBalanceIsNegative: true,
		BaseBalanceUsd:        decimal.RequireFromString("12.5"),
	}
	require.NoError(t, store.SaveAccounting(ctx, database, acc))

	acc.BaseBalance = bigint.New(0)
	acc.BaseBalanceIsNegative = false
	acc.BaseBalanceUsd = decimal.Zero
	require.NoError(t, store.UpdateAccounting(ctx, database, acc))

	persisted, err := store.FindAccounting(ctx, acc.PositionID)
	require.NoError(t, err)
	assert.True(t, persisted.BaseBalance.IsZero())
	assert.False(t, persisted.BaseBalanceIsNegative)
	assert.True(t, persisted.BaseBalanceUsd.IsZero())
	assert.Equal(t, int64(1), persisted.Version)
}

func TestUpdateStaleVersionWritesNothing(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	store := New(database)

	position := &core.Position{
		ID:            "0xc3:0xbb",
		MarketID:      "0xc3",
		AccountID:     "0xbb",
		BasePrincipal: bigint.New(100),
		AccountingID:  "0xc3:0xbb",
	}
	require.NoError(t, store.Save(ctx, database, position))

	stale := *position
	stale.Version = 7
	stale.BasePrincipal = bigint.New(999)
	require.NoError(t, store.Update(ctx, database, &stale))

	persisted, err := store.Find(ctx, position.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", persisted.BasePrincipal.String())
	assert.Equal(t, int64(0), persisted.Version)
}
