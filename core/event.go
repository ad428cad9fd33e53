package core

import (
	"context"

	"cometindex/pkg/bigint"

	"github.com/ethereum/go-ethereum/common"
)

// EventType labels a decoded on-chain event.
type EventType string

const (
	EventSupply              EventType = "Supply"
	EventWithdraw            EventType = "Withdraw"
	EventAbsorbDebt          EventType = "AbsorbDebt"
	EventSupplyCollateral    EventType = "SupplyCollateral"
	EventWithdrawCollateral  EventType = "WithdrawCollateral"
	EventTransferCollateral  EventType = "TransferCollateral"
	EventAbsorbCollateral    EventType = "AbsorbCollateral"
	EventBuyCollateral       EventType = "BuyCollateral"
	EventWithdrawReserves    EventType = "WithdrawReserves"
	EventTransfer            EventType = "Transfer"
	EventRewardClaimed       EventType = "RewardClaimed"
	EventUpgraded            EventType = "Upgraded"
	EventConfiguratorUpgrade EventType = "ConfiguratorUpgraded"
	EventSetFactory          EventType = "SetFactory"
)

// Receipt carries the optional transaction receipt data a stream may attach.
type Receipt struct {
	GasUsed bigint.Int
}

// Event is one decoded log delivered by the stream, in (block, logIndex)
// order. Exactly one params pointer matching Type is set.
type Event struct {
	Sequence    int64
	Type        EventType
	Address     common.Address // emitting contract
	BlockNumber uint64
	Timestamp   int64
	LogIndex    uint
	TxHash      common.Hash
	TxFrom      common.Address
	TxTo        common.Address
	GasLimit    bigint.Int
	GasPrice    bigint.Int
	Receipt     *Receipt

	Supply             *SupplyParams
	Withdraw           *WithdrawParams
	AbsorbDebt         *AbsorbDebtParams
	SupplyCollateral   *SupplyCollateralParams
	WithdrawCollateral *WithdrawCollateralParams
	TransferCollateral *TransferCollateralParams
	AbsorbCollateral   *AbsorbCollateralParams
	BuyCollateral      *BuyCollateralParams
	WithdrawReserves   *WithdrawReservesParams
	Transfer           *TransferParams
	RewardClaimed      *RewardClaimedParams
	Upgraded           *UpgradedParams
	SetFactory         *SetFactoryParams
}

type SupplyParams struct {
	From   common.Address
	Dst    common.Address
	Amount bigint.Int
}

type WithdrawParams struct {
	Src    common.Address
	To     common.Address
	Amount bigint.Int
}

type AbsorbDebtParams struct {
	Absorber    common.Address
	Borrower    common.Address
	BasePaidOut bigint.Int
	UsdValue    bigint.Int
}

type SupplyCollateralParams struct {
	From   common.Address
	Dst    common.Address
	Asset  common.Address
	Amount bigint.Int
}

type WithdrawCollateralParams struct {
	Src    common.Address
	To     common.Address
	Asset  common.Address
	Amount bigint.Int
}

type TransferCollateralParams struct {
	From   common.Address
	To     common.Address
	Asset  common.Address
	Amount bigint.Int
}

type AbsorbCollateralParams struct {
	Absorber           common.Address
	Borrower           common.Address
	Asset              common.Address
	CollateralAbsorbed bigint.Int
	UsdValue           bigint.Int
}

type BuyCollateralParams struct {
	Buyer            common.Address
	Asset            common.Address
	BaseAmount       bigint.Int
	CollateralAmount bigint.Int
}

type WithdrawReservesParams struct {
	To     common.Address
	Amount bigint.Int
}

type TransferParams struct {
	From   common.Address
	To     common.Address
	Amount bigint.Int
}

type RewardClaimedParams struct {
	Src       common.Address
	Recipient common.Address
	Token     common.Address
	Amount    bigint.Int
}

type UpgradedParams struct {
	Implementation common.Address
}

type SetFactoryParams struct {
	CometProxy common.Address
	NewFactory common.Address
}

// EventStream delivers decoded events in guaranteed block+log order.
// Reorg handling and deduplication are the stream's responsibility.
type EventStream interface {
	List(ctx context.Context, sinceSequence int64, limit int) ([]*Event, error)
}

// EventStore a persistent stream an ingester writes into. Saving the same
// (block, logIndex) twice is a no-op.
type EventStore interface {
	EventStream

	Save(ctx context.Context, ev *Event) error
}
