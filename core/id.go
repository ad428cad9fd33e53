package core

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Entity ids are deterministic concatenations of parent ids so that the
// same identity built from different events collides exactly, and different
// identities never do. Literal suffix tags keep same-shaped composite keys
// apart (a collateral token vs. its balance record).
const (
	idTagCollateral = "col"
	idTagBalance    = "bal"
)

// AddressID normalizes an address into its canonical id form.
func AddressID(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// ComposeID joins id parts with a separator that cannot occur inside a part.
func ComposeID(parts ...string) string {
	return strings.Join(parts, ":")
}

// EventID keys records created once per log: (txHash, logIndex).
func EventID(txHash common.Hash, logIndex uint) string {
	return ComposeID(strings.ToLower(txHash.Hex()), fmt.Sprintf("%d", logIndex))
}

// CoordinateID keys audit snapshots by (blockNumber, logIndex).
func CoordinateID(blockNumber uint64, logIndex uint) string {
	return fmt.Sprintf("%d:%d", blockNumber, logIndex)
}

// BucketID keys time-bucketed records.
func BucketID(prefix string, bucket int64) string {
	return ComposeID(prefix, fmt.Sprintf("%d", bucket))
}
