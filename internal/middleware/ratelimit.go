package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/marcrz/naviera-booking/internal/config"
)

// bucketScript refills and drains one token atomically.
// Reply: {allowed, tokens_left, retry_after_ms}.
var bucketScript = redis.NewScript(`
local state = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_ms')
local tokens = tonumber(state[1])
local refilled = tonumber(state[2])
local now = tonumber(ARGV[1])
local cap = tonumber(ARGV[2])
local step_tokens = tonumber(ARGV[3])
local step_ms = tonumber(ARGV[4])

if tokens == nil or refilled == nil then
  tokens = cap
  refilled = now
end

if step_ms > 0 and step_tokens > 0 then
  local steps = math.floor(math.max(0, now - refilled) / step_ms)
  if steps > 0 then
    tokens = math.min(cap, tokens + steps * step_tokens)
    refilled = refilled + steps * step_ms
  end
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry_ms = math.max(0, step_ms - (now - refilled))
end

redis.call('HMSET', KEYS[1], 'tokens', tokens, 'refilled_ms', refilled)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, retry_ms}
`)

type tokenBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// NewTokenBucket rate-limits requests with a per-key token bucket kept in
// Redis. Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	tb := &tokenBucket{cfg: cfg, rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, remaining, retryMs, err := tb.take(c)
			if err != nil {
				if tb.cfg.Debug {
					c.Logger().Warnf("rate limiter unavailable: %v", err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(tb.cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000))
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func (tb *tokenBucket) take(c echo.Context) (allowed bool, remaining, retryMs int64, err error) {
	res, err := bucketScript.Run(c.Request().Context(), tb.rdb,
		[]string{tb.key(c)},
		time.Now().UnixMilli(),
		tb.cfg.Capacity,
		tb.cfg.RefillTokens,
		tb.cfg.RefillInterval.Milliseconds(),
		int64(tb.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, err
	}
	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("unexpected limiter reply: %v", res)
	}
	return res[0] == 1, res[1], res[2], nil
}

func (tb *tokenBucket) key(c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	user := requestUser(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{tb.cfg.Prefix}
	switch strings.ToLower(tb.cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", user)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", user)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", user, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", user, "route", route)
	}
	return strings.Join(parts, ":")
}

// requestUser folds the authenticated subject into the limiter key so
// logged-in clients get per-user buckets.
func requestUser(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
