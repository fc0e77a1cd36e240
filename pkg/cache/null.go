package cache

import (
	"context"
	"time"
)

var _ Cache = NullCache{}

// NullCache stores nothing. Runners built with --no-cache, or whose
// configured backend could not be opened, use it so the render path never
// special-cases a missing cache.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() Cache { return NullCache{} }

// Get reports a miss.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
