// Package cache holds the blog's Valkey client plus the rendered-page
// cache for the public listing and post pages. Sessions share the same
// client; pages and sessions stay apart through their key prefixes.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectValkey opens the shared Valkey client for sessions and page
// caching, verifying the connection with a bounded ping. The blog refuses
// to start without it: sessions have nowhere else to live.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}
