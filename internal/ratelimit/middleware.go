package ratelimit

import (
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// PerIP rejects requests with 429 once the caller's IP is over budget.
// A broken counter lets the request through.
func PerIP(l Limiter, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ok, err := l.Allow(ctx.UserContext(), ctx.IP())
		if err != nil {
			log.Warn("RateLimit", "limiter unavailable", map[string]interface{}{"error": err})
			return ctx.Next()
		}
		if !ok {
			return fiber.NewError(fiber.StatusTooManyRequests, constant.MsgTooManyRequests)
		}
		return ctx.Next()
	}
}
