package cache

import (
	"context"

	"go.uber.org/zap"
)

// Mirror composes a primary store and an optional secondary mirror.
//
// Priority rule: within a session the primary (local) copy wins, so
// reads consult it first and a secondary hit is copied back into it. Writes go
// to both, but a secondary failure is logged rather than surfaced, so
// the two copies may diverge until the next successful write.
type Mirror struct {
	primary   Store
	secondary Store
	logger    *zap.Logger
}

// NewMirror creates a mirror. secondary may be nil, in which case the
// mirror degrades to the primary store alone.
func NewMirror(primary, secondary Store, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{primary: primary, secondary: secondary, logger: logger}
}

// Write stores data in the primary and best-effort in the secondary.
func (m *Mirror) Write(ctx context.Context, key string, data []byte) error {
	if err := m.primary.Write(ctx, key, data); err != nil {
		return err
	}
	if m.secondary != nil {
		if err := m.secondary.Write(ctx, key, data); err != nil {
			m.logger.Warn("secondary cache write failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Read returns the primary copy when present, otherwise falls back to
// the secondary and repairs the primary from it.
func (m *Mirror) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := m.primary.Read(ctx, key)
	if err == nil {
		return data, nil
	}
	if m.secondary == nil {
		return nil, err
	}

	data, serr := m.secondary.Read(ctx, key)
	if serr != nil {
		return nil, err
	}
	if werr := m.primary.Write(ctx, key, data); werr != nil {
		m.logger.Warn("primary cache repair failed",
			zap.String("key", key),
			zap.Error(werr),
		)
	}
	return data, nil
}

// Exists reports whether either copy holds the key.
func (m *Mirror) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := m.primary.Exists(ctx, key)
	if err == nil && ok {
		return true, nil
	}
	if m.secondary != nil {
		if ok, serr := m.secondary.Exists(ctx, key); serr == nil {
			return ok, nil
		}
	}
	return ok, err
}

// Delete removes the key from both copies.
func (m *Mirror) Delete(ctx context.Context, key string) error {
	err := m.primary.Delete(ctx, key)
	if m.secondary != nil {
		if serr := m.secondary.Delete(ctx, key); serr != nil {
			m.logger.Warn("secondary cache delete failed",
				zap.String("key", key),
				zap.Error(serr),
			)
		}
	}
	return err
}
