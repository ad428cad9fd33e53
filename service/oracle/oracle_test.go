package oracle

import (
	"context"
	"testing"

	"cometindex/core"
	"cometindex/pkg/bigint"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChainReader struct {
	core.ChainStateReader
	prices map[string]bigint.Int
	calls  int
}

func (r *stubChainReader) Price(ctx context.Context, comet, feed common.Address, block uint64) (bigint.Int, error) {
	r.calls++
	return r.prices[core.AddressID(feed)], nil
}

type stubTokenStore struct {
	core.ITokenStore
	tokens map[string]*core.Token
}

func (s *stubTokenStore) Find(ctx context.Context, id string) (*core.Token, error) {
	return s.tokens[id], nil
}

const (
	proxy    = "0xc3d688b66703497daa19211eedff47f25384cdc3"
	ethFeed  = "0x0000000000000000000000000000000000000e01"
	wstFeed  = "0x0000000000000000000000000000000000000e02"
	uoaFeed  = "0x0000000000000000000000000000000000000e03"
)

func TestPriceFeedUsd(t *testing.T) {
	ctx := context.Background()
	chain := &stubChainReader{prices: map[string]bigint.Int{
		ethFeed: bigint.MustFromString("345600000000"),
	}}

	service := New(&core.Config{}, chain, nil, nil)
	market := &core.Market{ID: proxy, CometProxy: proxy}

	price, err := service.PriceFeedUsd(ctx, market, ethFeed, 100)
	require.NoError(t, err)
	assert.Equal(t, "3456", price.String())
	assert.Equal(t, 1, chain.calls)

	// same feed at the same block comes from the cache
	_, err = service.PriceFeedUsd(ctx, market, ethFeed, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, chain.calls)

	// a different block is a fresh read
	_, err = service.PriceFeedUsd(ctx, market, ethFeed, 101)
	require.NoError(t, err)
	assert.Equal(t, 2, chain.calls)
}

func TestTokenPriceUsdUnitOfAccount(t *testing.T) {
	ctx := context.Background()

	tokenID := "0x0000000000000000000000000000000000000aa1:col"
	chain := &stubChainReader{prices: map[string]bigint.Int{
		// wstETH per ETH, then ETH per USD
		wstFeed: bigint.MustFromString("115000000"),
		uoaFeed: bigint.MustFromString("345600000000"),
	}}
	tokens := &stubTokenStore{tokens: map[string]*core.Token{
		tokenID: {ID: tokenID, Kind: core.TokenKindCollateral},
	}}

	cfg := &core.Config{Protocol: core.ProtocolCfg{
		UnitOfAccountPriceFeeds: map[string]string{proxy: uoaFeed},
	}}
	service := New(cfg, chain, nil, tokens)
	market := &core.Market{ID: proxy, CometProxy: proxy}

	price, err := service.TokenPriceUsd(ctx, market, tokenID, wstFeed, 100)
	require.NoError(t, err)
	assert.Equal(t, "3974.4", price.String())
}

func TestTokenPriceUsdDirect(t *testing.T) {
	ctx := context.Background()

	tokenID := "0x0000000000000000000000000000000000000aa2"
	chain := &stubChainReader{prices: map[string]bigint.Int{
		ethFeed: bigint.MustFromString("100000000"),
	}}
	tokens := &stubTokenStore{tokens: map[string]*core.Token{
		tokenID: {ID: tokenID, Kind: core.TokenKindBase},
	}}

	// no unit of account feed configured, the answer is already USD
	service := New(&core.Config{}, chain, nil, tokens)
	market := &core.Market{ID: proxy, CometProxy: proxy}

	price, err := service.TokenPriceUsd(ctx, market, tokenID, ethFeed, 100)
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())
}
