package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/auto-dealership/internal/config"
)

// RateLimit applies a fixed-window counter per client to the wrapped
// routes.  It protects the review/comment write endpoints from spam:
// cfg.Limit requests per cfg.Window, keyed by authenticated user ID
// when present and client IP otherwise.  Redis errors fail open; a
// degraded limiter must not take the API down with it.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, clientKey(c), c.Path())
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if count > int64(cfg.Limit) {
				retry := cfg.Window.Seconds()
				if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retry = ttl.Seconds()
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry)))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}

// clientKey identifies the caller for rate limiting: the JWT subject
// when the request is authenticated, otherwise the remote IP.
func clientKey(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		return fmt.Sprintf("u%v", v)
	}
	return "ip" + c.RealIP()
}
