package cache

import "context"

// Store defines one persistence backend for digest records.
type Store interface {
	// Write stores data under the given key
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves data for the given key
	Read(ctx context.Context, key string) ([]byte, error)

	// Exists checks if data exists for the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the data for the given key
	Delete(ctx context.Context, key string) error
}
