package middleware

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"event-ticketing-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// tokenBucketScript refills the bucket for the elapsed whole intervals, then
// takes one token. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimit guards a route group with a Redis token bucket keyed by client
// IP, user and route. It is a pass-through when disabled or rdb is nil, and
// fails open when Redis errors.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) fiber.Handler {
	if !cfg.Enabled || rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	ttl := 5 * cfg.RefillInterval
	if ttl < time.Minute {
		ttl = time.Minute
	}

	return func(c *fiber.Ctx) error {
		key := rateKey(cfg.Prefix, c)
		args := []interface{}{
			time.Now().UnixMilli(),
			cfg.Capacity,
			cfg.RefillInterval.Milliseconds(),
			int64(ttl / time.Second),
		}

		vals, err := tokenBucketScript.Run(c.UserContext(), rdb, []string{key}, args...).Slice()
		if err != nil || len(vals) != 3 {
			logrus.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
			return c.Next()
		}

		allowed := asInt64(vals[0]) == 1
		remaining := asInt64(vals[1])
		retryMs := asInt64(vals[2])

		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

func rateKey(prefix string, c *fiber.Ctx) string {
	user := "anon"
	if id, ok := c.Locals("user_id").(uuid.UUID); ok && id != uuid.Nil {
		user = id.String()
	}
	route := fmt.Sprintf("%s %s", c.Method(), c.Route().Path)
	return strings.Join([]string{prefix, "ip", c.IP(), "user", user, "route", route}, ":")
}
