package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marketpulse/pulse/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RoundTrip(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	record := Record{
		Timestamp: now,
		Analyses: map[core.Category]core.Analysis{
			core.CategoryEconomy: {
				Summary:      "Rates held steady.",
				KeyPoints:    []string{"Fed on hold"},
				Sentiment:    core.SentimentNeutral,
				MarketImpact: core.ImpactMedium,
				Keywords:     []string{"fed", "rates"},
				CreatedAt:    now,
			},
		},
		Categories: []core.Category{core.CategoryEconomy},
	}

	require.NoError(t, WriteRecord(ctx, store, record))

	got, err := ReadRecord(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, record.Analyses, got.Analyses)
	assert.Equal(t, record.Categories, got.Categories)
	assert.True(t, got.Timestamp.Equal(record.Timestamp))
	assert.True(t, got.Fresh(time.Hour, now.Add(time.Minute)))
}

func TestRecord_FreshBoundary(t *testing.T) {
	ttl := time.Hour
	written := time.Now()
	record := Record{Timestamp: written}

	assert.True(t, record.Fresh(ttl, written.Add(ttl-time.Millisecond)), "record at TTL-1ms must be valid")
	assert.False(t, record.Fresh(ttl, written.Add(ttl+time.Millisecond)), "record at TTL+1ms must be stale")
}

func TestReadRecord_Missing(t *testing.T) {
	_, err := ReadRecord(context.Background(), newMemStore())
	assert.True(t, errors.Is(err, core.ErrCacheMiss))
}

func TestReadRecord_Corrupt(t *testing.T) {
	store := newMemStore()
	store.data[RecordKey] = []byte("not json")
	_, err := ReadRecord(context.Background(), store)
	assert.True(t, errors.Is(err, core.ErrCacheMiss))
}

func TestLastRun_RoundTrip(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	at := time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)
	require.NoError(t, WriteLastRun(ctx, store, at))

	got, err := ReadLastRun(ctx, store)
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}

func TestReadLastRun_Missing(t *testing.T) {
	_, err := ReadLastRun(context.Background(), newMemStore())
	assert.True(t, errors.Is(err, core.ErrCacheMiss))
}

func TestReadLastRun_Corrupt(t *testing.T) {
	store := newMemStore()
	store.data[LastRunKey] = []byte("yesterday-ish")
	_, err := ReadLastRun(context.Background(), store)
	assert.True(t, errors.Is(err, core.ErrCacheMiss))
}
