package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketpulse/pulse/internal/core"
)

// Keys used in the digest cache stores.
const (
	RecordKey  = "digest/analyses.json"
	LastRunKey = "digest/last_run"
)

// Record is the persisted digest: a timestamp plus the per-category
// analyses produced by one orchestration run.
type Record struct {
	Timestamp  time.Time                       `json:"timestamp"`
	Analyses   map[core.Category]core.Analysis `json:"analyses"`
	Categories []core.Category                 `json:"categories"`
}

// Fresh reports whether the record is younger than the TTL at the given
// instant.
func (r Record) Fresh(ttl time.Duration, now time.Time) bool {
	return now.Sub(r.Timestamp) < ttl
}

// WriteRecord marshals and stores a record.
func WriteRecord(ctx context.Context, store Store, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return store.Write(ctx, RecordKey, data)
}

// ReadRecord loads and unmarshals the stored record. A missing or
// corrupt record returns ErrCacheMiss.
func ReadRecord(ctx context.Context, store Store) (*Record, error) {
	data, err := store.Read(ctx, RecordKey)
	if err != nil {
		return nil, core.WrapError(core.ErrCacheMiss, err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, core.WrapError(core.ErrCacheMiss, fmt.Errorf("corrupt record: %w", err))
	}
	return &record, nil
}

// WriteLastRun stores the last-analysis-time marker.
func WriteLastRun(ctx context.Context, store Store, at time.Time) error {
	return store.Write(ctx, LastRunKey, []byte(at.UTC().Format(time.RFC3339Nano)))
}

// ReadLastRun loads the last-analysis-time marker. A missing or corrupt
// marker returns the zero time and ErrCacheMiss.
func ReadLastRun(ctx context.Context, store Store) (time.Time, error) {
	data, err := store.Read(ctx, LastRunKey)
	if err != nil {
		return time.Time{}, core.WrapError(core.ErrCacheMiss, err)
	}
	at, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return time.Time{}, core.WrapError(core.ErrCacheMiss, fmt.Errorf("corrupt marker: %w", err))
	}
	return at, nil
}
