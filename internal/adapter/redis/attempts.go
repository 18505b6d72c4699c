package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
)

// hitScript increments the counter and starts the window expiry on the first
// hit. It returns {count, remaining ttl in ms}.
var hitScript = goredis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {n, ttl}
`)

// AttemptStore is a ratelimit.Store shared between server instances.
type AttemptStore struct {
	client goredis.Cmdable
	prefix string
}

var _ ratelimit.Store = (*AttemptStore)(nil)

// NewAttemptStore creates a store writing keys under prefix.
func NewAttemptStore(client goredis.Cmdable, prefix string) *AttemptStore {
	return &AttemptStore{client: client, prefix: prefix}
}

func (s *AttemptStore) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (ratelimit.State, error) {
	res, err := hitScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return ratelimit.State{}, fmt.Errorf("redis: hit %s: %w", key, err)
	}
	if len(res) != 2 {
		return ratelimit.State{}, fmt.Errorf("redis: hit %s: unexpected reply %v", key, res)
	}

	remaining := time.Duration(res[1]) * time.Millisecond
	if remaining < 0 {
		remaining = window
	}
	return ratelimit.State{
		Count:       int(res[0]),
		WindowStart: now.Add(remaining - window),
	}, nil
}

func (s *AttemptStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: reset %s: %w", key, err)
	}
	return nil
}
