package chain

import (
	"context"
	"math/big"

	"cometindex/core"
	"cometindex/internal/comet"
	"cometindex/pkg/bigint"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

type stateReader struct {
	client *ethclient.Client
}

// New new chain state reader over an archive node rpc endpoint
func New(client *ethclient.Client) core.ChainStateReader {
	return &stateReader{client: client}
}

// Dial connects the rpc endpoint and wraps it as a state reader.
func Dial(ctx context.Context, endpoint string) (core.ChainStateReader, error) {
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return New(client), nil
}

func (r *stateReader) Head(ctx context.Context) (uint64, int64, error) {
	header, err := r.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	return header.Number.Uint64(), int64(header.Time), nil
}

func (r *stateReader) call(ctx context.Context, contract common.Address, parsed abi.ABI, block uint64, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{To: &contract, Data: data}
	var blockNumber *big.Int
	if block > 0 {
		blockNumber = new(big.Int).SetUint64(block)
	}

	out, err := r.client.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, err
	}
	return parsed.Unpack(method, out)
}

func asBigint(v interface{}) bigint.Int {
	switch x := v.(type) {
	case *big.Int:
		return bigint.FromBig(x)
	case uint64:
		return bigint.New(int64(x))
	case uint8:
		return bigint.New(int64(x))
	default:
		return bigint.Int{}
	}
}

// signedParts splits a possibly negative big integer into magnitude and
// sign, the representation the accounting works in.
func signedParts(v *big.Int) (bigint.Int, bool) {
	if v.Sign() < 0 {
		return bigint.FromBig(new(big.Int).Neg(v)), true
	}
	return bigint.FromBig(v), false
}

func (r *stateReader) TotalsBasic(ctx context.Context, cometAddr common.Address, block uint64) (*core.TotalsBasic, error) {
	out, err := r.call(ctx, cometAddr, cometAbi, block, "totalsBasic")
	if err != nil {
		return nil, err
	}

	tuple := out[0].(struct {
		BaseSupplyIndex     uint64   `json:"baseSupplyIndex"`
		BaseBorrowIndex     uint64   `json:"baseBorrowIndex"`
		TrackingSupplyIndex uint64   `json:"trackingSupplyIndex"`
		TrackingBorrowIndex uint64   `json:"trackingBorrowIndex"`
		TotalSupplyBase     *big.Int `json:"totalSupplyBase"`
		TotalBorrowBase     *big.Int `json:"totalBorrowBase"`
		LastAccrualTime     *big.Int `json:"lastAccrualTime"`
		PauseFlags          uint8    `json:"pauseFlags"`
	})

	return &core.TotalsBasic{
		BaseSupplyIndex:     bigint.New(int64(tuple.BaseSupplyIndex)),
		BaseBorrowIndex:     bigint.New(int64(tuple.BaseBorrowIndex)),
		TrackingSupplyIndex: bigint.New(int64(tuple.TrackingSupplyIndex)),
		TrackingBorrowIndex: bigint.New(int64(tuple.TrackingBorrowIndex)),
		TotalSupplyBase:     bigint.FromBig(tuple.TotalSupplyBase),
		TotalBorrowBase:     bigint.FromBig(tuple.TotalBorrowBase),
		LastAccrualTime:     tuple.LastAccrualTime.Int64(),
	}, nil
}

func (r *stateReader) TotalsCollateral(ctx context.Context, cometAddr, asset common.Address, block uint64) (*core.TotalsCollateral, error) {
	out, err := r.call(ctx, cometAddr, cometAbi, block, "totalsCollateral", asset)
	if err != nil {
		return nil, err
	}
	return &core.TotalsCollateral{
		TotalSupplyAsset: bigint.FromBig(out[0].(*big.Int)),
		Reserved:         bigint.FromBig(out[1].(*big.Int)),
	}, nil
}

func (r *stateReader) Reserves(ctx context.Context, cometAddr common.Address, block uint64) (bigint.Int, error) {
	out, err := r.call(ctx, cometAddr, cometAbi, block, "getReserves")
	if err != nil {
		return bigint.Int{}, err
	}
	return bigint.FromBig(out[0].(*big.Int)), nil
}

func (r *stateReader) Price(ctx context.Context, cometAddr, feed common.Address, block uint64) (bigint.Int, error) {
	out, err := r.call(ctx, cometAddr, cometAbi, block, "getPrice", feed)
	if err != nil {
		return bigint.Int{}, err
	}
	return bigint.FromBig(out[0].(*big.Int)), nil
}

func (r *stateReader) UserBasic(ctx context.Context, cometAddr, account common.Address, block uint64) (*core.UserBasic, error) {
	out, err := r.call(ctx, cometAddr, cometAbi, block, "userBasic", account)
	if err != nil {
		return nil, err
	}

	principal, neg := signedParts(out[0].(*big.Int))
	return &core.UserBasic{
		Principal:           principal,
		PrincipalIsNegative: neg,
		BaseTrackingIndex:   bigint.New(int64(out[1].(uint64))),
		BaseTrackingAccrued: bigint.New(int64(out[2].(uint64))),
	}, nil
}

func (r *stateReader) UserCollateral(ctx context.Context, cometAddr, account, asset common.Address, block uint64) (bigint.Int, error) {
	out, err := r.call(ctx, cometAddr, cometAbi, block, "userCollateral", account, asset)
	if err != nil {
		return bigint.Int{}, err
	}
	return bigint.FromBig(out[0].(*big.Int)), nil
}

func (r *stateReader) TokenInfo(ctx context.Context, token common.Address) (*core.TokenInfo, error) {
	info := &core.TokenInfo{}

	out, err := r.call(ctx, token, erc20Abi, 0, "name")
	if err != nil {
		return nil, err
	}
	info.Name = out[0].(string)

	out, err = r.call(ctx, token, erc20Abi, 0, "symbol")
	if err != nil {
		return nil, err
	}
	info.Symbol = out[0].(string)

	out, err = r.call(ctx, token, erc20Abi, 0, "decimals")
	if err != nil {
		return nil, err
	}
	info.Decimals = out[0].(uint8)

	return info, nil
}

// MarketConfig reads governance parameters straight off the comet
// contract's getters, one call per field.
func (r *stateReader) MarketConfig(ctx context.Context, cometAddr common.Address, block uint64) (*core.MarketConfigData, error) {
	data := &core.MarketConfigData{}

	addrFields := []struct {
		method string
		dst    *common.Address
	}{
		{"governor", &data.Governor},
		{"pauseGuardian", &data.PauseGuardian},
		{"extensionDelegate", &data.ExtensionDelegate},
		{"baseToken", &data.BaseToken},
		{"baseTokenPriceFeed", &data.BaseTokenPriceFeed},
	}
	for _, f := range addrFields {
		out, err := r.call(ctx, cometAddr, cometAbi, block, f.method)
		if err != nil {
			return nil, err
		}
		*f.dst = out[0].(common.Address)
	}

	intFields := []struct {
		method string
		dst    *bigint.Int
	}{
		{"supplyKink", &data.SupplyKink},
		{"supplyPerSecondInterestRateBase", &data.SupplyPerSecondInterestRateBase},
		{"supplyPerSecondInterestRateSlopeLow", &data.SupplyPerSecondInterestRateSlopeLow},
		{"supplyPerSecondInterestRateSlopeHigh", &data.SupplyPerSecondInterestRateSlopeHigh},
		{"borrowKink", &data.BorrowKink},
		{"borrowPerSecondInterestRateBase", &data.BorrowPerSecondInterestRateBase},
		{"borrowPerSecondInterestRateSlopeLow", &data.BorrowPerSecondInterestRateSlopeLow},
		{"borrowPerSecondInterestRateSlopeHigh", &data.BorrowPerSecondInterestRateSlopeHigh},
		{"storeFrontPriceFactor", &data.StoreFrontPriceFactor},
		{"trackingIndexScale", &data.TrackingIndexScale},
		{"baseTrackingSupplySpeed", &data.BaseTrackingSupplySpeed},
		{"baseTrackingBorrowSpeed", &data.BaseTrackingBorrowSpeed},
		{"baseMinForRewards", &data.BaseMinForRewards},
		{"baseBorrowMin", &data.BaseBorrowMin},
		{"targetReserves", &data.TargetReserves},
	}
	for _, f := range intFields {
		out, err := r.call(ctx, cometAddr, cometAbi, block, f.method)
		if err != nil {
			return nil, err
		}
		*f.dst = asBigint(out[0])
	}

	out, err := r.call(ctx, cometAddr, cometAbi, block, "numAssets")
	if err != nil {
		return nil, err
	}
	numAssets := out[0].(uint8)

	for i := uint8(0); i < numAssets; i++ {
		out, err := r.call(ctx, cometAddr, cometAbi, block, "getAssetInfo", i)
		if err != nil {
			return nil, err
		}

		tuple := out[0].(struct {
			Offset                    uint8          `json:"offset"`
			Asset                     common.Address `json:"asset"`
			PriceFeed                 common.Address `json:"priceFeed"`
			Scale                     uint64         `json:"scale"`
			BorrowCollateralFactor    uint64         `json:"borrowCollateralFactor"`
			LiquidateCollateralFactor uint64         `json:"liquidateCollateralFactor"`
			LiquidationFactor         uint64         `json:"liquidationFactor"`
			SupplyCap                 *big.Int       `json:"supplyCap"`
		})

		data.AssetConfigs = append(data.AssetConfigs, core.AssetInfo{
			Asset:                     tuple.Asset,
			PriceFeed:                 tuple.PriceFeed,
			Scale:                     bigint.New(int64(tuple.Scale)),
			BorrowCollateralFactor:    bigint.New(int64(tuple.BorrowCollateralFactor)),
			LiquidateCollateralFactor: bigint.New(int64(tuple.LiquidateCollateralFactor)),
			LiquidationFactor:         bigint.New(int64(tuple.LiquidationFactor)),
			SupplyCap:                 bigint.FromBig(tuple.SupplyCap),
		})
	}

	return data, nil
}

// RewardConfig normalizes the two reward contract generations. The newer
// shape carries a multiplier; the older one is treated as multiplier one,
// at reward factor scale.
func (r *stateReader) RewardConfig(ctx context.Context, rewards, cometAddr common.Address, block uint64) (*core.RewardConfig, error) {
	if out, err := r.call(ctx, rewards, rewardsV2Abi, block, "rewardConfig", cometAddr); err == nil {
		return &core.RewardConfig{
			Token:         out[0].(common.Address),
			RescaleFactor: bigint.New(int64(out[1].(uint64))),
			ShouldUpscale: out[2].(bool),
			Multiplier:    bigint.FromBig(out[3].(*big.Int)),
		}, nil
	}

	out, err := r.call(ctx, rewards, rewardsV1Abi, block, "rewardConfig", cometAddr)
	if err != nil {
		return nil, err
	}
	return &core.RewardConfig{
		Token:         out[0].(common.Address),
		RescaleFactor: bigint.New(int64(out[1].(uint64))),
		ShouldUpscale: out[2].(bool),
		Multiplier:    comet.RewardFactorScale,
	}, nil
}
