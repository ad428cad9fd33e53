package position

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

type positionService struct {
	cfg             *core.Config
	accountStore    core.IAccountStore
	positionStore   core.IPositionStore
	marketStore     core.IMarketStore
	tokenStore      core.ITokenStore
	collateralStore core.ICollateralStore
	chain           core.ChainStateReader
	priceService    core.IPriceService
	snapshotService core.ISnapshotService
}

// New new position service
func New(
	cfg *core.Config,
	accountStore core.IAccountStore,
	positionStore core.IPositionStore,
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	collateralStore core.ICollateralStore,
	chain core.ChainStateReader,
	priceService core.IPriceService,
	snapshotService core.ISnapshotService,
) core.IPositionService {
	return &positionService{
		cfg:             cfg,
		accountStore:    accountStore,
		positionStore:   positionStore,
		marketStore:     marketStore,
		tokenStore:      tokenStore,
		collateralStore: collateralStore,
		chain:           chain,
		priceService:    priceService,
		snapshotService: snapshotService,
	}
}

func (s *positionService) GetOrCreate(ctx context.Context, tx *db.DB, market *core.Market, addr string, ev *core.Event) (*core.Position, error) {
	account, err := s.accountStore.Find(ctx, addr)
	if gorm.IsRecordNotFoundError(err) {
		account = &core.Account{
			ID:            addr,
			Address:       addr,
			CreationBlock: ev.BlockNumber,
		}
		if err := s.accountStore.Save(ctx, tx, account); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	id := core.PositionID(market.ID, account.ID)
	position, err := s.positionStore.Find(ctx, id)
	if err == nil {
		return position, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	position = &core.Position{
		ID:            id,
		MarketID:      market.ID,
		AccountID:     account.ID,
		CreationBlock: ev.BlockNumber,
		AccountingID:  id,
	}
	if err := s.positionStore.Save(ctx, tx, position); err != nil {
		return nil, err
	}

	accounting := &core.PositionAccounting{
		ID:          id,
		PositionID:  id,
		BlockNumber: ev.BlockNumber,
		Timestamp:   ev.Timestamp,
	}
	if err := s.positionStore.SaveAccounting(ctx, tx, accounting); err != nil {
		return nil, err
	}

	return position, nil
}

// presentValueDelta derives the signed base delta this event applied to the
// position. Supplies add, withdrawals subtract, absorbed debt is repaid on
// the borrower's behalf so it adds. Base transfers add on the receiving
// side and subtract on the sending side.
func presentValueDelta(position *core.Position, ev *core.Event) (bigint.Int, bool, bool) {
	switch ev.Type {
	case core.EventSupply:
		return ev.Supply.Amount, false, true
	case core.EventWithdraw:
		return ev.Withdraw.Amount, true, true
	case core.EventAbsorbDebt:
		return ev.AbsorbDebt.BasePaidOut, false, true
	case core.EventTransfer:
		if core.AddressID(ev.Transfer.To) == position.AccountID {
			return ev.Transfer.Amount, false, true
		}
		return ev.Transfer.Amount, true, true
	default:
		return bigint.Int{}, false, false
	}
}

func (s *positionService) UpdatePrincipal(ctx context.Context, tx *db.DB, market *core.Market, position *core.Position, ev *core.Event) (*core.PrincipalChange, error) {
	log := logger.FromContext(ctx).WithField("service", "position")

	deltaMag, deltaNeg, ok := presentValueDelta(position, ev)
	if !ok {
		return &core.PrincipalChange{}, nil
	}

	supplyIndex, borrowIndex, err := s.indices(ctx, market, ev)
	if err != nil {
		return nil, err
	}

	oldMag, oldNeg := position.BasePrincipal, position.BasePrincipalIsNegative
	oldIndex := supplyIndex
	if oldNeg {
		oldIndex = borrowIndex
	}

	oldPV := fixedpoint.PresentValue(oldMag, oldIndex, comet.BaseIndexScale)
	newPV, newNeg := fixedpoint.SignedAdd(oldPV, oldNeg, deltaMag, deltaNeg)

	newIndex := supplyIndex
	if newNeg {
		newIndex = borrowIndex
	}
	newMag := fixedpoint.PrincipalValue(newPV, newIndex, comet.BaseIndexScale)
	if newMag.IsZero() {
		newNeg = false
	}

	change := splitPrincipalChange(oldMag, oldNeg, newMag, newNeg)

	position.BasePrincipal = newMag
	position.BasePrincipalIsNegative = newNeg

	// tracking accrual depends on contract internals the events do not
	// expose, so it is read back rather than recomputed
	basic, err := s.chain.UserBasic(ctx, common.HexToAddress(market.CometProxy), common.HexToAddress(position.AccountID), ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("userBasic read failed, tracking state kept")
	} else {
		position.BaseTrackingIndex = basic.BaseTrackingIndex
		position.BaseTrackingAccrued = basic.BaseTrackingAccrued
	}

	if err := s.positionStore.Update(ctx, tx, position); err != nil {
		return nil, err
	}

	return change, nil
}

// splitPrincipalChange compares the old and new principal split into their
// supply leg (non-negative part) and borrow leg (non-positive part), so a
// single update that crosses zero reports a full debt repayment plus a
// supply increase.
func splitPrincipalChange(oldMag bigint.Int, oldNeg bool, newMag bigint.Int, newNeg bool) *core.PrincipalChange {
	zero := bigint.New(0)

	oldSupply, newSupply := zero, zero
	if !oldNeg {
		oldSupply = oldMag
	}
	if !newNeg {
		newSupply = newMag
	}

	oldBorrow, newBorrow := zero, zero
	if oldNeg {
		oldBorrow = oldMag
	}
	if newNeg {
		newBorrow = newMag
	}

	change := &core.PrincipalChange{}
	change.SupplyChange, change.SupplyChangeIsNeg = fixedpoint.SignedAdd(newSupply, false, oldSupply, true)
	change.BorrowChange, change.BorrowChangeIsNeg = fixedpoint.SignedAdd(newBorrow, false, oldBorrow, true)
	return change
}

// indices loads the market's live interest indices, preferring a fresh
// chain read pinned to the event block.
func (s *positionService) indices(ctx context.Context, market *core.Market, ev *core.Event) (bigint.Int, bigint.Int, error) {
	log := logger.FromContext(ctx).WithField("service", "position")

	totals, err := s.chain.TotalsBasic(ctx, common.HexToAddress(market.CometProxy), ev.BlockNumber)
	if err == nil {
		return totals.BaseSupplyIndex, totals.BaseBorrowIndex, nil
	}
	log.WithError(err).Warningln("totalsBasic read failed, using stored indices")

	acc, err := s.marketStore.FindAccounting(ctx, market.ID)
	if err != nil {
		return bigint.Int{}, bigint.Int{}, err
	}
	return acc.BaseSupplyIndex, acc.BaseBorrowIndex, nil
}

func (s *positionService) UpdateAccounting(ctx context.Context, tx *db.DB, market *core.Market, position *core.Position, ev *core.Event) error {
	acc, err := s.positionStore.FindAccounting(ctx, position.AccountingID)
	if gorm.IsRecordNotFoundError(err) {
		return core.ErrPositionNotFound
	} else if err != nil {
		return err
	}

	supplyIndex, borrowIndex, err := s.indices(ctx, market, ev)
	if err != nil {
		return err
	}

	index := supplyIndex
	if position.BasePrincipalIsNegative {
		index = borrowIndex
	}
	acc.BaseBalance = fixedpoint.PresentValue(position.BasePrincipal, index, comet.BaseIndexScale)
	acc.BaseBalanceIsNegative = position.BasePrincipalIsNegative
	acc.BlockNumber = ev.BlockNumber
	acc.Timestamp = ev.Timestamp

	baseDecimals, basePrice, err := s.priceBalances(ctx, market, position, acc, ev)
	if err != nil {
		return err
	}

	s.accumulate(ctx, acc, position, ev, baseDecimals, basePrice)

	if err := s.positionStore.UpdateAccounting(ctx, tx, acc); err != nil {
		return err
	}

	return s.snapshotService.PositionAccounting(ctx, tx, acc, ev)
}

func (s *positionService) priceBalances(ctx context.Context, market *core.Market, position *core.Position, acc *core.PositionAccounting, ev *core.Event) (uint8, decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("service", "position")

	base, err := s.tokenStore.FindBase(ctx, market.ID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	baseToken, err := s.tokenStore.Find(ctx, base.TokenID)
	if err != nil {
		return 0, decimal.Zero, err
	}

	price, err := s.priceService.TokenPriceUsd(ctx, market, base.TokenID, base.PriceFeed, ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("base price failed, balance priced at zero")
		price = decimal.Zero
	}
	acc.BaseBalanceUsd = comet.TokenValueUsd(acc.BaseBalance, baseToken.Decimals, price)

	balances, err := s.collateralStore.ListPositionBalances(ctx, position.ID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	total := decimal.Zero
	for _, bal := range balances {
		total = total.Add(bal.BalanceUsd)
	}
	acc.CollateralBalanceUsd = total
	return baseToken.Decimals, price, nil
}

func (s *positionService) accumulate(ctx context.Context, acc *core.PositionAccounting, position *core.Position, ev *core.Event, baseDecimals uint8, basePrice decimal.Decimal) {
	switch ev.Type {
	case core.EventSupply:
		acc.CumulativeBaseSupplied = acc.CumulativeBaseSupplied.Add(ev.Supply.Amount)
		acc.CumulativeBaseSuppliedUsd = acc.CumulativeBaseSuppliedUsd.
			Add(comet.TokenValueUsd(ev.Supply.Amount, baseDecimals, basePrice))
	case core.EventWithdraw:
		acc.CumulativeBaseWithdrawn = acc.CumulativeBaseWithdrawn.Add(ev.Withdraw.Amount)
		acc.CumulativeBaseWithdrawnUsd = acc.CumulativeBaseWithdrawnUsd.
			Add(comet.TokenValueUsd(ev.Withdraw.Amount, baseDecimals, basePrice))
	case core.EventAbsorbDebt:
		acc.CumulativeBaseAbsorbed = acc.CumulativeBaseAbsorbed.Add(ev.AbsorbDebt.BasePaidOut)
	}

	// gas is attributed to the position of the transaction sender only
	if ev.Receipt != nil && core.AddressID(ev.TxFrom) == position.AccountID {
		weiSpent := ev.Receipt.GasUsed.Mul(ev.GasPrice)
		acc.CumulativeGasUsedWei = acc.CumulativeGasUsedWei.Add(weiSpent)
		acc.CumulativeGasUsedUsd = acc.CumulativeGasUsedUsd.
			Add(comet.TokenValueUsd(weiSpent, 18, s.nativeTokenPrice(ctx, ev)))
	}
}

// nativeTokenPrice prices the chain's gas token in USD, zero when no feed is
// configured or the read fails.
func (s *positionService) nativeTokenPrice(ctx context.Context, ev *core.Event) decimal.Decimal {
	if s.cfg.Protocol.NativeTokenPriceFeed == "" {
		return decimal.Zero
	}

	price, err := s.priceService.PriceFeedUsd(ctx, nil, s.cfg.Protocol.NativeTokenPriceFeed, ev.BlockNumber)
	if err != nil {
		logger.FromContext(ctx).WithField("service", "position").
			WithError(err).Warningln("native token price failed, gas valued at zero")
		return decimal.Zero
	}
	return price
}

func (s *positionService) RefreshCollateral(ctx context.Context, tx *db.DB, market *core.Market, position *core.Position, asset string, ev *core.Event) error {
	log := logger.FromContext(ctx).WithField("service", "position")

	col, err := s.tokenStore.FindCollateral(ctx, market.ID, asset)
	if err != nil {
		return err
	}
	token, err := s.tokenStore.Find(ctx, col.TokenID)
	if err != nil {
		return err
	}

	// replacement from the authoritative read, not delta accumulation:
	// collateral moves through too many event shapes to track increments
	balance, err := s.chain.UserCollateral(ctx, common.HexToAddress(market.CometProxy), common.HexToAddress(position.AccountID), common.HexToAddress(asset), ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("userCollateral read failed, balance zeroed")
		balance = bigint.New(0)
	}

	price, err := s.priceService.TokenPriceUsd(ctx, market, col.TokenID, col.PriceFeed, ev.BlockNumber)
	if err != nil {
		log.WithError(err).Warningln("collateral price failed, priced at zero")
		price = decimal.Zero
	}

	id := core.PositionCollateralBalanceID(position.ID, asset)
	bal, err := s.collateralStore.FindPositionBalance(ctx, id)
	if gorm.IsRecordNotFoundError(err) {
		bal = &core.PositionCollateralBalance{
			ID:                id,
			PositionID:        position.ID,
			CollateralTokenID: col.ID,
		}
		bal.BlockNumber = ev.BlockNumber
		bal.Timestamp = ev.Timestamp
		bal.Balance = balance
		bal.BalanceUsd = comet.TokenValueUsd(balance, token.Decimals, price)
		return s.collateralStore.SavePositionBalance(ctx, tx, bal)
	} else if err != nil {
		return err
	}

	bal.BlockNumber = ev.BlockNumber
	bal.Timestamp = ev.Timestamp
	bal.Balance = balance
	bal.BalanceUsd = comet.TokenValueUsd(balance, token.Decimals, price)
	return s.collateralStore.UpdatePositionBalance(ctx, tx, bal)
}
