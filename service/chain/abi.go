package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const cometABI = `[
  {"name":"totalsBasic","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple","components":[
    {"name":"baseSupplyIndex","type":"uint64"},
    {"name":"baseBorrowIndex","type":"uint64"},
    {"name":"trackingSupplyIndex","type":"uint64"},
    {"name":"trackingBorrowIndex","type":"uint64"},
    {"name":"totalSupplyBase","type":"uint104"},
    {"name":"totalBorrowBase","type":"uint104"},
    {"name":"lastAccrualTime","type":"uint40"},
    {"name":"pauseFlags","type":"uint8"}]}]},
  {"name":"totalsCollateral","type":"function","stateMutability":"view","inputs":[{"name":"asset","type":"address"}],"outputs":[
    {"name":"totalSupplyAsset","type":"uint128"},
    {"name":"_reserved","type":"uint128"}]},
  {"name":"getReserves","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"int256"}]},
  {"name":"getPrice","type":"function","stateMutability":"view","inputs":[{"name":"priceFeed","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"userBasic","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[
    {"name":"principal","type":"int104"},
    {"name":"baseTrackingIndex","type":"uint64"},
    {"name":"baseTrackingAccrued","type":"uint64"},
    {"name":"assetsIn","type":"uint16"},
    {"name":"_reserved","type":"uint8"}]},
  {"name":"userCollateral","type":"function","stateMutability":"view","inputs":[
    {"name":"account","type":"address"},{"name":"asset","type":"address"}],"outputs":[
    {"name":"balance","type":"uint128"},
    {"name":"_reserved","type":"uint128"}]},
  {"name":"governor","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"name":"pauseGuardian","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"name":"extensionDelegate","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"name":"baseToken","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"name":"baseTokenPriceFeed","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"name":"supplyKink","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"supplyPerSecondInterestRateBase","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"supplyPerSecondInterestRateSlopeLow","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"supplyPerSecondInterestRateSlopeHigh","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"borrowKink","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"borrowPerSecondInterestRateBase","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"borrowPerSecondInterestRateSlopeLow","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"borrowPerSecondInterestRateSlopeHigh","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"storeFrontPriceFactor","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"trackingIndexScale","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"baseTrackingSupplySpeed","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"baseTrackingBorrowSpeed","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"baseMinForRewards","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"baseBorrowMin","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"targetReserves","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"numAssets","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"name":"getAssetInfo","type":"function","stateMutability":"view","inputs":[{"name":"i","type":"uint8"}],"outputs":[{"name":"","type":"tuple","components":[
    {"name":"offset","type":"uint8"},
    {"name":"asset","type":"address"},
    {"name":"priceFeed","type":"address"},
    {"name":"scale","type":"uint64"},
    {"name":"borrowCollateralFactor","type":"uint64"},
    {"name":"liquidateCollateralFactor","type":"uint64"},
    {"name":"liquidationFactor","type":"uint64"},
    {"name":"supplyCap","type":"uint128"}]}]}
]`

const erc20ABI = `[
  {"name":"name","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

// two reward contract generations exist on chain, the older one without a
// multiplier
const rewardsV2ABI = `[
  {"name":"rewardConfig","type":"function","stateMutability":"view","inputs":[{"name":"comet","type":"address"}],"outputs":[
    {"name":"token","type":"address"},
    {"name":"rescaleFactor","type":"uint64"},
    {"name":"shouldUpscale","type":"bool"},
    {"name":"multiplier","type":"uint256"}]}
]`

const rewardsV1ABI = `[
  {"name":"rewardConfig","type":"function","stateMutability":"view","inputs":[{"name":"comet","type":"address"}],"outputs":[
    {"name":"token","type":"address"},
    {"name":"rescaleFactor","type":"uint64"},
    {"name":"shouldUpscale","type":"bool"}]}
]`

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

var (
	cometAbi     = mustParseABI(cometABI)
	erc20Abi     = mustParseABI(erc20ABI)
	rewardsV2Abi = mustParseABI(rewardsV2ABI)
	rewardsV1Abi = mustParseABI(rewardsV1ABI)
)
