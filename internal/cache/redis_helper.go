package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/fullstock/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultExportTTL = 5 * time.Minute
	pingTimeout      = 5 * time.Second
	unlinkBatchSize  = 100
)

// newRedisClient connects to the configured server and fails fast when it
// does not answer a ping.
func newRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}

	return client, nil
}

func exportTTL(cfg config.CacheConfig) time.Duration {
	if cfg.ExportTTLSeconds <= 0 {
		return defaultExportTTL
	}
	return time.Duration(cfg.ExportTTLSeconds) * time.Second
}

// buildRedisOptions prefers REDIS_URL and otherwise assembles host/port.
func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := strings.TrimSpace(cfg.RedisHost)
	if host == "" {
		host = "127.0.0.1"
	}
	port := strings.TrimSpace(cfg.RedisPort)
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// unlinkMatching removes the keys matching pattern in batches and returns how
// many were removed. Keys are unlinked while scanning; SCAN still visits every
// key that exists for the whole iteration.
func unlinkMatching(ctx context.Context, client *redis.Client, pattern string) (int, error) {
	var removed int
	batch := make([]string, 0, unlinkBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	iter := client.Scan(ctx, 0, pattern, unlinkBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatchSize {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan failed: %w", err)
	}
	return removed, flush()
}

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
