package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kitefall/pulse-backend/internal/platform/envutil"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

const snapshotKey = "signals:snapshot"

// CachedSource keeps one JSON snapshot of the signal set in Redis so pipeline
// runs inside the TTL window rank every user against an identical snapshot.
// Cache failures fall through to the wrapped source; the cache is an
// optimization, never a gate.
type CachedSource struct {
	log  *logger.Logger
	rdb  *goredis.Client
	next Source
	ttl  time.Duration
}

// NewCachedSource connects to REDIS_ADDR. A missing address is not an error:
// the wrapped source is returned unchanged so development works without Redis.
func NewCachedSource(log *logger.Logger, next Source) (Source, error) {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		log.Info("REDIS_ADDR not set, signal snapshot cache disabled")
		return next, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &CachedSource{
		log:  log.With("service", "CachedSignalSource"),
		rdb:  rdb,
		next: next,
		ttl:  envutil.Duration("SIGNAL_SNAPSHOT_TTL", 10*time.Minute),
	}, nil
}

func (c *CachedSource) LiveSignals(ctx context.Context, limit int) ([]Signal, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey).Result()
	if err == nil && strings.TrimSpace(raw) != "" {
		var cached []Signal
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			if limit > 0 && len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
		c.log.Warn("Discarding unreadable signal snapshot")
	}

	sigs, err := c.next.LiveSignals(ctx, limit)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(sigs); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, snapshotKey, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("Failed to cache signal snapshot", "error", setErr)
		}
	}
	return sigs, nil
}

func (c *CachedSource) Close() error {
	return c.rdb.Close()
}
