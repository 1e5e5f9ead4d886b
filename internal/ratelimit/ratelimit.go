// Package ratelimit provides a Redis-backed per-IP token bucket.
// It stores no application data; it only throttles the public surface.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ratelimit:ip:"
	keyTTL    = 10 * time.Second
)

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and takes a token in a single atomic step.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// Limiter throttles requests per client IP.
type Limiter struct {
	client *redis.Client
	rate   float64
	burst  int
}

// New connects to Redis and returns a Limiter allowing rps requests per
// second with the given burst capacity.
func New(ctx context.Context, redisURL string, rps, burst int) (*Limiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Limiter{client: client, rate: float64(rps), burst: burst}, nil
}

// Allow checks and consumes one token for the given IP.
// IPs are hashed before use as keys.
func (l *Limiter) Allow(ctx context.Context, ip string) (*Result, error) {
	sum := sha256.Sum256([]byte(ip))
	key := keyPrefix + hex.EncodeToString(sum[:16])

	values, err := tokenBucketScript.Run(ctx, l.client,
		[]string{key},
		l.rate,
		l.burst,
		time.Now().Unix(),
		int(keyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("rate limit script returned %d values", len(values))
	}

	return &Result{
		Allowed:    values[0] == 1,
		RetryAfter: time.Duration(values[1]) * time.Second,
		Remaining:  values[2],
	}, nil
}

// Close releases the Redis client.
func (l *Limiter) Close() error {
	return l.client.Close()
}
