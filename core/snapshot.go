package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Snapshots freeze an accounting row into a time bucket. The bucket key is
// timestamp divided by the bucket width, so the first event of a bucket wins
// and later events in the same bucket leave the snapshot alone. Each
// snapshot points at a frozen clone of the accounting row, stored in the
// accounting table under the snapshot's own id.

// MarketAccountingSnapshot one frozen market accounting per (market, bucket).
type MarketAccountingSnapshot struct {
	ID           string    `sql:"size:96;PRIMARY_KEY" json:"id"`
	MarketID     string    `sql:"size:64;index:idx_market_accounting_snapshots_market" json:"market_id"`
	Bucket       int64     `json:"bucket"`
	BucketWidth  int64     `json:"bucket_width"`
	Timestamp    int64     `json:"timestamp"`
	AccountingID string    `sql:"size:96" json:"accounting_id"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ProtocolAccountingSnapshot one frozen protocol accounting per bucket.
type ProtocolAccountingSnapshot struct {
	ID           string    `sql:"size:96;PRIMARY_KEY" json:"id"`
	Bucket       int64     `json:"bucket"`
	BucketWidth  int64     `json:"bucket_width"`
	Timestamp    int64     `json:"timestamp"`
	AccountingID string    `sql:"size:96" json:"accounting_id"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// PositionAccountingSnapshot one frozen position accounting per
// (position, bucket).
type PositionAccountingSnapshot struct {
	ID           string    `sql:"size:128;PRIMARY_KEY" json:"id"`
	PositionID   string    `sql:"size:96;index:idx_position_accounting_snapshots_position" json:"position_id"`
	Bucket       int64     `json:"bucket"`
	BucketWidth  int64     `json:"bucket_width"`
	Timestamp    int64     `json:"timestamp"`
	AccountingID string    `sql:"size:128" json:"accounting_id"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// MarketConfigurationSnapshot an audit copy of the configuration taken at
// the exact chain coordinate that changed it.
type MarketConfigurationSnapshot struct {
	ID              string    `sql:"size:96;PRIMARY_KEY" json:"id"`
	MarketID        string    `sql:"size:64;index:idx_market_configuration_snapshots_market" json:"market_id"`
	BlockNumber     uint64    `json:"block_number"`
	LogIndex        uint      `json:"log_index"`
	Timestamp       int64     `json:"timestamp"`
	ConfigurationID string    `sql:"size:96" json:"configuration_id"`
	CreatedAt       time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Bucket returns the bucket index for a timestamp and width.
func Bucket(timestamp, width int64) int64 {
	return timestamp / width
}

// CloneWithoutID returns a copy ready to be stored under a new id.
func (a *MarketAccounting) CloneWithoutID(id string) *MarketAccounting {
	clone := *a
	clone.ID = id
	clone.Version = 0
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// CloneWithoutID returns a copy ready to be stored under a new id.
func (a *ProtocolAccounting) CloneWithoutID(id string) *ProtocolAccounting {
	clone := *a
	clone.ID = id
	clone.Version = 0
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// CloneWithoutID returns a copy ready to be stored under a new id.
func (a *PositionAccounting) CloneWithoutID(id string) *PositionAccounting {
	clone := *a
	clone.ID = id
	clone.Version = 0
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// CloneWithoutID returns a copy ready to be stored under a new id.
func (c *MarketConfiguration) CloneWithoutID(id string) *MarketConfiguration {
	clone := *c
	clone.ID = id
	clone.Version = 0
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return &clone
}

// ISnapshotStore snapshot store interface. Save methods are no-ops when a
// snapshot with the same id already exists.
type ISnapshotStore interface {
	SaveMarketSnapshot(ctx context.Context, tx *db.DB, snapshot *MarketAccountingSnapshot, frozen *MarketAccounting) error
	FindMarketSnapshot(ctx context.Context, id string) (*MarketAccountingSnapshot, error)

	SaveProtocolSnapshot(ctx context.Context, tx *db.DB, snapshot *ProtocolAccountingSnapshot, frozen *ProtocolAccounting) error
	FindProtocolSnapshot(ctx context.Context, id string) (*ProtocolAccountingSnapshot, error)

	SavePositionSnapshot(ctx context.Context, tx *db.DB, snapshot *PositionAccountingSnapshot, frozen *PositionAccounting) error
	FindPositionSnapshot(ctx context.Context, id string) (*PositionAccountingSnapshot, error)

	SaveConfigurationSnapshot(ctx context.Context, tx *db.DB, snapshot *MarketConfigurationSnapshot, frozen *MarketConfiguration) error
	FindConfigurationSnapshot(ctx context.Context, id string) (*MarketConfigurationSnapshot, error)
}

// ISnapshotService snapshot service interface
type ISnapshotService interface {
	// MarketAccounting cuts hourly, daily and weekly snapshots of the
	// accounting at the event's timestamp.
	MarketAccounting(ctx context.Context, tx *db.DB, acc *MarketAccounting, ev *Event) error
	ProtocolAccounting(ctx context.Context, tx *db.DB, acc *ProtocolAccounting, ev *Event) error
	PositionAccounting(ctx context.Context, tx *db.DB, acc *PositionAccounting, ev *Event) error
	// MarketConfiguration writes an audit snapshot keyed by the event's
	// chain coordinate.
	MarketConfiguration(ctx context.Context, tx *db.DB, cfg *MarketConfiguration, ev *Event) error
}
