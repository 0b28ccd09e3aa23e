package ratelimit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/pkg/serverutils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	now := time.Date(2025, 1, 27, 10, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(rdb, "test:", 3, time.Minute)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "other keys have their own budget")

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "next window starts fresh")
}

func TestLocalLimiterBurst(t *testing.T) {
	l := NewLocalLimiter(2, time.Minute)
	ctx := context.Background()
	a, _ := l.Allow(ctx, "k")
	b, _ := l.Allow(ctx, "k")
	c, _ := l.Allow(ctx, "k")
	assert.True(t, a)
	assert.True(t, b)
	assert.False(t, c)
}

func TestPerIPMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(logger.NewNopLogger())})
	app.Post("/login", PerIP(NewLocalLimiter(1, time.Minute), logger.NewNopLogger()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
