package position

import (
	"context"
	"testing"

	"cometindex/core"
	"cometindex/pkg/bigint"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPrincipalChange(t *testing.T) {
	t.Run("pure supply increase", func(t *testing.T) {
		change := splitPrincipalChange(bigint.New(0), false, bigint.New(1000000), false)
		assert.Equal(t, "1000000", change.SupplyChange.String())
		assert.False(t, change.SupplyChangeIsNeg)
		assert.True(t, change.BorrowChange.IsZero())
	})

	t.Run("pure borrow increase", func(t *testing.T) {
		change := splitPrincipalChange(bigint.New(0), false, bigint.New(500), true)
		assert.True(t, change.SupplyChange.IsZero())
		assert.Equal(t, "500", change.BorrowChange.String())
		assert.False(t, change.BorrowChangeIsNeg)
	})

	t.Run("full repayment lands exactly on zero", func(t *testing.T) {
		change := splitPrincipalChange(bigint.New(700), true, bigint.New(0), false)
		assert.True(t, change.SupplyChange.IsZero())
		assert.Equal(t, "700", change.BorrowChange.String())
		assert.True(t, change.BorrowChangeIsNeg)
	})

	t.Run("crossing zero splits into both legs", func(t *testing.T) {
		change := splitPrincipalChange(bigint.New(400), true, bigint.New(600), false)
		assert.Equal(t, "600", change.SupplyChange.String())
		assert.False(t, change.SupplyChangeIsNeg)
		assert.Equal(t, "400", change.BorrowChange.String())
		assert.True(t, change.BorrowChangeIsNeg)
	})

	t.Run("supply withdrawn into borrow", func(t *testing.T) {
		change := splitPrincipalChange(bigint.New(100), false, bigint.New(250), true)
		assert.Equal(t, "100", change.SupplyChange.String())
		assert.True(t, change.SupplyChangeIsNeg)
		assert.Equal(t, "250", change.BorrowChange.String())
		assert.False(t, change.BorrowChangeIsNeg)
	})
}

func TestPresentValueDelta(t *testing.T) {
	receiver := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	sender := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	position := &core.Position{AccountID: core.AddressID(receiver)}

	t.Run("supply adds", func(t *testing.T) {
		ev := &core.Event{Type: core.EventSupply, Supply: &core.SupplyParams{Amount: bigint.New(42)}}
		mag, neg, ok := presentValueDelta(position, ev)
		require.True(t, ok)
		assert.Equal(t, "42", mag.String())
		assert.False(t, neg)
	})

	t.Run("withdraw subtracts", func(t *testing.T) {
		ev := &core.Event{Type: core.EventWithdraw, Withdraw: &core.WithdrawParams{Amount: bigint.New(42)}}
		mag, neg, ok := presentValueDelta(position, ev)
		require.True(t, ok)
		assert.Equal(t, "42", mag.String())
		assert.True(t, neg)
	})

	t.Run("absorbed debt is a repayment", func(t *testing.T) {
		ev := &core.Event{Type: core.EventAbsorbDebt, AbsorbDebt: &core.AbsorbDebtParams{BasePaidOut: bigint.New(42)}}
		_, neg, ok := presentValueDelta(position, ev)
		require.True(t, ok)
		assert.False(t, neg)
	})

	t.Run("transfer sides", func(t *testing.T) {
		ev := &core.Event{Type: core.EventTransfer, Transfer: &core.TransferParams{
			From:   sender,
			To:     receiver,
			Amount: bigint.New(42),
		}}

		_, neg, ok := presentValueDelta(position, ev)
		require.True(t, ok)
		assert.False(t, neg)

		other := &core.Position{AccountID: core.AddressID(sender)}
		_, neg, ok = presentValueDelta(other, ev)
		require.True(t, ok)
		assert.True(t, neg)
	})

	t.Run("collateral events carry no base delta", func(t *testing.T) {
		ev := &core.Event{Type: core.EventSupplyCollateral}
		_, _, ok := presentValueDelta(position, ev)
		assert.False(t, ok)
	})
}

type stubPriceService struct {
	core.IPriceService
	price decimal.Decimal
}

func (s *stubPriceService) PriceFeedUsd(ctx context.Context, market *core.Market, feed string, block uint64) (decimal.Decimal, error) {
	return s.price, nil
}

func TestAccumulateUsdCounters(t *testing.T) {
	ctx := context.Background()
	sender := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	position := &core.Position{AccountID: core.AddressID(sender)}

	t.Run("supply accrues base and usd", func(t *testing.T) {
		s := &positionService{cfg: &core.Config{}}
		acc := &core.PositionAccounting{}

		ev := &core.Event{
			Type:   core.EventSupply,
			Supply: &core.SupplyParams{Amount: bigint.New(2000000)},
		}
		s.accumulate(ctx, acc, position, ev, 6, decimal.NewFromInt(1))

		assert.Equal(t, "2000000", acc.CumulativeBaseSupplied.String())
		assert.True(t, acc.CumulativeBaseSuppliedUsd.Equal(decimal.NewFromInt(2)))
		assert.True(t, acc.CumulativeBaseWithdrawnUsd.IsZero())
	})

	t.Run("sender gas is valued through the native feed", func(t *testing.T) {
		s := &positionService{
			cfg: &core.Config{
				Protocol: core.ProtocolCfg{NativeTokenPriceFeed: "0x00000000000000000000000000000000000000fe"},
			},
			priceService: &stubPriceService{price: decimal.NewFromInt(2000)},
		}
		acc := &core.PositionAccounting{}

		ev := &core.Event{
			Type:     core.EventWithdraw,
			Withdraw: &core.WithdrawParams{Amount: bigint.New(1000000)},
			TxFrom:   sender,
			GasPrice: bigint.New(20000000000),
			Receipt:  &core.Receipt{GasUsed: bigint.New(100000)},
		}
		s.accumulate(ctx, acc, position, ev, 6, decimal.NewFromInt(1))

		assert.Equal(t, "2000000000000000", acc.CumulativeGasUsedWei.String())
		assert.True(t, acc.CumulativeGasUsedUsd.Equal(decimal.NewFromInt(4)))
		assert.True(t, acc.CumulativeBaseWithdrawnUsd.Equal(decimal.NewFromInt(1)))
	})

	t.Run("no feed leaves gas usd at zero", func(t *testing.T) {
		s := &positionService{cfg: &core.Config{}}
		acc := &core.PositionAccounting{}

		ev := &core.Event{
			Type:     core.EventWithdraw,
			Withdraw: &core.WithdrawParams{Amount: bigint.New(1000000)},
			TxFrom:   sender,
			GasPrice: bigint.New(20000000000),
			Receipt:  &core.Receipt{GasUsed: bigint.New(100000)},
		}
		s.accumulate(ctx, acc, position, ev, 6, decimal.Zero)

		assert.Equal(t, "2000000000000000", acc.CumulativeGasUsedWei.String())
		assert.True(t, acc.CumulativeGasUsedUsd.IsZero())
	})

	t.Run("receiver pays no gas", func(t *testing.T) {
		s := &positionService{cfg: &core.Config{}}
		acc := &core.PositionAccounting{}
		other := common.HexToAddress("0x00000000000000000000000000000000000000bb")

		ev := &core.Event{
			Type:     core.EventWithdraw,
			Withdraw: &core.WithdrawParams{Amount: bigint.New(1000000)},
			TxFrom:   other,
			GasPrice: bigint.New(20000000000),
			Receipt:  &core.Receipt{GasUsed: bigint.New(100000)},
		}
		s.accumulate(ctx, acc, position, ev, 6, decimal.Zero)

		assert.True(t, acc.CumulativeGasUsedWei.IsZero())
	})
}
