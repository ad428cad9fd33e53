package event

import (
	"context"
	"encoding/json"
	"time"

	"cometindex/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

// Event one decoded log at rest. The typed payload is kept as json so the
// table never changes shape when event kinds do.
type Event struct {
	Sequence    int64     `sql:"AUTO_INCREMENT;PRIMARY_KEY" json:"sequence"`
	Type        string    `sql:"size:32" json:"type"`
	BlockNumber uint64    `sql:"unique_index:idx_events_coordinate" json:"block_number"`
	LogIndex    uint      `sql:"unique_index:idx_events_coordinate" json:"log_index"`
	TxHash      string    `sql:"size:66" json:"tx_hash"`
	Data        string    `sql:"type:longtext" json:"data"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(Event{})
		if err := tx.AutoMigrate(Event{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) Save(ctx context.Context, ev *core.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	row := Event{
		Type:        string(ev.Type),
		BlockNumber: ev.BlockNumber,
		LogIndex:    ev.LogIndex,
		TxHash:      ev.TxHash.Hex(),
		Data:        string(data),
	}

	var existing Event
	err = s.db.View().
		Where("block_number = ? and log_index = ?", ev.BlockNumber, ev.LogIndex).
		First(&existing).Error
	if err == nil {
		return nil
	} else if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	return s.db.Update().Create(&row).Error
}

func (s *eventStore) List(ctx context.Context, sinceSequence int64, limit int) ([]*core.Event, error) {
	var rows []*Event
	if err := s.db.View().
		Where("sequence > ?", sinceSequence).
		Order("sequence").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]*core.Event, 0, len(rows))
	for _, row := range rows {
		var ev core.Event
		if err := json.Unmarshal([]byte(row.Data), &ev); err != nil {
			return nil, err
		}
		ev.Sequence = row.Sequence
		events = append(events, &ev)
	}

	return events, nil
}
