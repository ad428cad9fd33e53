package core

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestAddressID(t *testing.T) {
	addr := common.HexToAddress("0xC3D688B66703497DAA19211EEdff47f25384cdc3")
	assert.Equal(t, "0xc3d688b66703497daa19211eedff47f25384cdc3", AddressID(addr))
}

func TestEventID(t *testing.T) {
	hash := common.HexToHash("0xAB")
	id := EventID(hash, 7)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000000ab:7", id)
}

func TestBucket(t *testing.T) {
	assert.Equal(t, int64(0), Bucket(3599, 3600))
	assert.Equal(t, int64(1), Bucket(3600, 3600))
	assert.Equal(t, int64(1), Bucket(7199, 3600))
}

func TestCloneWithoutID(t *testing.T) {
	acc := &MarketAccounting{ID: "live", MarketID: "m", Version: 9}
	clone := acc.CloneWithoutID("frozen")

	assert.Equal(t, "frozen", clone.ID)
	assert.Equal(t, "m", clone.MarketID)
	assert.Zero(t, clone.Version)

	// the live row is untouched
	assert.Equal(t, "live", acc.ID)
	assert.Equal(t, int64(9), acc.Version)
}
