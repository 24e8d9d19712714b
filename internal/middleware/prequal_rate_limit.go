package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const prequalRateWindow = time.Minute

// PrequalRateLimit caps prequalification attempts per applicant, falling back
// to the client IP when the body names no applicant. Each attempt may reach
// the credit bureau. The limiter fails open on cache errors; a nil cache or
// a non-positive limit disables it.
func PrequalRateLimit(cache *redis.Client, maxPerMin int, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache == nil || maxPerMin <= 0 {
			return c.Next()
		}

		var req struct {
			ApplicantID string `json:"applicantId"`
		}
		_ = c.BodyParser(&req)
		subject := strings.TrimSpace(req.ApplicantID)
		if subject == "" {
			subject = "ip:" + c.IP()
		}
		key := "rl:prequal:" + subject

		ctx, cancel := context.WithTimeout(c.UserContext(), cacheOpTimeout)
		defer cancel()

		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			if logger != nil {
				logger.Warn("prequal rate limit unavailable", slog.Any("error", err))
			}
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(ctx, key, prequalRateWindow)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many prequalification attempts, try again later")
		}
		return c.Next()
	}
}
