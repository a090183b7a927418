package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/fullstock/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const exportKeyPrefix = "fullstock:export"

// ExportCache keeps rendered workbooks per session, keyed by the session
// fingerprint, so an unchanged session is rendered once. Entries of one
// session never touch another session's entries.
type ExportCache interface {
	Get(ctx context.Context, sessionID, fingerprint string) ([]byte, bool, error)
	Set(ctx context.Context, sessionID, fingerprint string, workbook []byte) error
	InvalidateSession(ctx context.Context, sessionID string) error
}

type redisExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopExportCache struct{}

func NewExportCache(ctx context.Context, cfg config.CacheConfig) (ExportCache, error) {
	if !cfg.Enabled {
		return &noopExportCache{}, nil
	}

	client, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisExportCache(client, exportTTL(cfg)), nil
}

func NewRedisExportCache(client *redis.Client, ttl time.Duration) ExportCache {
	if ttl <= 0 {
		ttl = defaultExportTTL
	}
	return &redisExportCache{client: client, ttl: ttl}
}

func NewNoopExportCache() ExportCache {
	return &noopExportCache{}
}

func (c *redisExportCache) Get(ctx context.Context, sessionID, fingerprint string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, exportKey(sessionID, fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, true, nil
}

func (c *redisExportCache) Set(ctx context.Context, sessionID, fingerprint string, workbook []byte) error {
	if err := c.client.Set(ctx, exportKey(sessionID, fingerprint), workbook, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisExportCache) InvalidateSession(ctx context.Context, sessionID string) error {
	removed, err := unlinkMatching(ctx, c.client, sessionPattern(sessionID))
	if err != nil {
		return err
	}
	log.Debug().Str("session", sessionID).Int("keys", removed).Msg("export cache invalidated")
	return nil
}

func (n *noopExportCache) Get(ctx context.Context, sessionID, fingerprint string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *noopExportCache) Set(ctx context.Context, sessionID, fingerprint string, workbook []byte) error {
	return nil
}

func (n *noopExportCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return nil
}

func exportKey(sessionID, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s", exportKeyPrefix, sessionID, fingerprint)
}

// sessionPattern matches every export key of one session.
func sessionPattern(sessionID string) string {
	return fmt.Sprintf("%s:%s:*", exportKeyPrefix, escapeGlob(sessionID))
}
