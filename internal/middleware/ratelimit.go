package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"court_booking_backend/internal/config"
	"court_booking_backend/internal/metrics"
	"court_booking_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills by whole intervals and takes one token per request.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// bucketTTL keeps idle buckets around until they would have refilled completely.
func bucketTTL(cfg config.RateLimit) time.Duration {
	fill := time.Duration(math.Ceil(float64(cfg.Capacity)/float64(cfg.RefillTokens))) * cfg.RefillInterval
	if fill < time.Minute {
		return time.Minute
	}
	return fill
}

type limiterResult struct {
	allowed   bool
	remaining int64
	retryMs   int64
}

func parseLimiterResult(vals interface{}) (limiterResult, bool) {
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return limiterResult{}, false
	}
	return limiterResult{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		retryMs:   asInt64(arr[2]),
	}, true
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
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func rateKey(cfg config.RateLimit, c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{cfg.Prefix, "ip", ip, "route", c.Request.Method + " " + c.FullPath()}, ":")
}

// RateLimit applies a Redis token bucket per client IP and route. It passes every
// request through when disabled, when rdb is nil, or when Redis errors.
func RateLimit(cfg config.RateLimit, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttlSeconds := int64(bucketTTL(cfg) / time.Second)

	return func(c *gin.Context) {
		key := rateKey(cfg, c)
		vals, err := tokenBucketScript.Run(c.Request.Context(), rdb, []string{key},
			time.Now().UnixMilli(), cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval.Milliseconds(), ttlSeconds,
		).Result()
		if err != nil {
			utils.LogWarn("Rate limiter unavailable, allowing request", map[string]interface{}{"key": key, "error": err.Error()})
			c.Next()
			return
		}
		res, ok := parseLimiterResult(vals)
		if !ok {
			utils.LogWarn("Unexpected rate limiter result", map[string]interface{}{"key": key})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))

		if !res.allowed {
			secs := int(math.Ceil(float64(res.retryMs) / 1000.0))
			if secs < 0 {
				secs = 0
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			metrics.RecordRateLimited(c.FullPath())
			utils.RespondWithError(c, utils.NewAPIError(http.StatusTooManyRequests, utils.ErrCodeTooManyRequests, "Rate limit exceeded", ""))
			return
		}
		c.Next()
	}
}
