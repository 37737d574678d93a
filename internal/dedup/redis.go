package dedup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reply:lock:"

// Guard claims a ticket_id for the duration of a submission.
type Guard interface {
	// Acquire returns false when another submission already holds the ticket.
	Acquire(ctx context.Context, ticketID string) (release func(context.Context) error, ok bool, err error)
}

// Connect accepts either a redis:// URL or a plain host:port.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisGuard keeps one key per ticket with a TTL equal to the dedup window.
type RedisGuard struct {
	client *redis.Client
	window time.Duration
}

func NewRedisGuard(client *redis.Client, window time.Duration) *RedisGuard {
	return &RedisGuard{client: client, window: window}
}

func (g *RedisGuard) Acquire(ctx context.Context, ticketID string) (func(context.Context) error, bool, error) {
	key := keyPrefix + ticketID
	owner := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, owner, g.window).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		// only the owner may delete; a lock that expired and was re-taken stays
		return releaseScript.Run(ctx, g.client, []string{key}, owner).Err()
	}
	return release, true, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
