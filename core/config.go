package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config indexer config
type Config struct {
	App      App         `json:"app"`
	DB       db.Config   `json:"db"`
	Chain    Chain       `json:"chain"`
	Protocol ProtocolCfg `json:"protocol"`
}

// App app config
type App struct {
	Location string `json:"location"`
	// events pulled from the stream per poll
	BatchSize int `json:"batch_size"`
}

// Chain rpc endpoint config
type Chain struct {
	Endpoint string `json:"endpoint"`
	ChainID  int64  `json:"chain_id"`
}

// ProtocolCfg deployment addresses and oracle wiring
type ProtocolCfg struct {
	Configurator string `json:"configurator"`
	Rewards      string `json:"rewards"`
	RewardToken  string `json:"reward_token"`
	// chainlink feed pricing the reward token in USD
	RewardTokenPriceFeed string `json:"reward_token_price_feed"`
	// chainlink feed pricing the chain's gas token in USD
	NativeTokenPriceFeed string `json:"native_token_price_feed"`
	// feeds pricing each market's unit of account in USD, keyed by the
	// comet proxy address, for markets whose base feed is not USD-quoted
	UnitOfAccountPriceFeeds map[string]string `json:"unit_of_account_price_feeds"`
}
