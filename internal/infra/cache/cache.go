package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache holds rendered report payloads for a short TTL. Aggregations are
// deterministic over the event log, so a stale entry is at worst a few
// seconds behind the board.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReportKey builds the cache key for one report over one window.
func ReportKey(report, from, to, tz string) string {
	return fmt.Sprintf("report:%s:%s:%s:%s", report, from, to, tz)
}

type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}
