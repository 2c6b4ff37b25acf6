// Package presence mirrors the roster into Redis so external tooling can see
// who is online without talking to the chat process. It is an optional
// observer: the relay works exactly the same without it.
package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"wschat-service/internal/config"
)

const (
	onlineSetKey = "online_clients"

	// Online status entries refresh on every join, stale ones expire.
	onlineTTL  = 5 * time.Minute
	offlineTTL = 24 * time.Hour
)

type Tracker struct {
	client *redis.Client
	log    *slog.Logger
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(cfg config.RedisConfig, log *slog.Logger) (*Tracker, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.MaxRetries = cfg.MaxRetries
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Tracker{client: client, log: log}, nil
}

// NewTracker wraps an existing client. Used by tests.
func NewTracker(client *redis.Client, log *slog.Logger) *Tracker {
	return &Tracker{client: client, log: log}
}

func (t *Tracker) Close() error {
	return t.client.Close()
}

func (t *Tracker) ClientOnline(ctx context.Context, nick string) error {
	pipe := t.client.Pipeline()

	pipe.SAdd(ctx, onlineSetKey, nick)
	pipe.HSet(ctx, statusKey(nick), map[string]interface{}{
		"status":     "online",
		"updated_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, statusKey(nick), onlineTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		t.log.Error("failed to mark client online", "nick", nick, "error", err)
		return err
	}

	t.log.Debug("client marked online", "nick", nick)
	return nil
}

func (t *Tracker) ClientOffline(ctx context.Context, nick string) error {
	pipe := t.client.Pipeline()

	pipe.SRem(ctx, onlineSetKey, nick)
	pipe.HSet(ctx, statusKey(nick), map[string]interface{}{
		"status":     "offline",
		"last_seen":  time.Now().Unix(),
		"updated_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, statusKey(nick), offlineTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		t.log.Error("failed to mark client offline", "nick", nick, "error", err)
		return err
	}

	t.log.Debug("client marked offline", "nick", nick)
	return nil
}

// OnlineClients returns the mirrored set of online nicknames.
func (t *Tracker) OnlineClients(ctx context.Context) ([]string, error) {
	return t.client.SMembers(ctx, onlineSetKey).Result()
}

func statusKey(nick string) string {
	return fmt.Sprintf("client:%s:status", nick)
}
