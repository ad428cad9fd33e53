package refresher

import (
	"context"
	"testing"

	"cometindex/core"

	"github.com/stretchr/testify/assert"
)

type stubChainReader struct {
	core.ChainStateReader
	calls int
}

func (r *stubChainReader) Head(ctx context.Context) (uint64, int64, error) {
	r.calls++
	return 100, 1_700_000_000, nil
}

type stubMarketStore struct {
	core.IMarketStore
}

func (s *stubMarketStore) All(ctx context.Context) ([]*core.Market, error) {
	return nil, nil
}

func TestScheduledTickRunsOnePass(t *testing.T) {
	chain := &stubChainReader{}
	w := New("UTC", nil, chain, &stubMarketStore{}, nil)

	// the cron entry fires the promoted job runner
	w.BaseJob.Run()

	assert.Equal(t, 1, chain.calls)
	assert.False(t, w.IsRunning)
}
