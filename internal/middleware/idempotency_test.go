package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forward-rent/prequal/internal/logging"
)

func newCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func setupIdempotencyApp(t *testing.T, required bool) (*fiber.App, *atomic.Int32) {
	t.Helper()
	cache, _ := newCache(t)
	calls := &atomic.Int32{}

	app := fiber.New()
	app.Use(Idempotency(cache, IdempotencyOptions{TTL: time.Minute, Required: required}, logging.Discard()))
	app.Post("/resource", func(c *fiber.Ctx) error {
		n := calls.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})
	app.Post("/flaky", func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.SendStatus(fiber.StatusServiceUnavailable)
	})
	return app, calls
}

func postWithKey(t *testing.T, app *fiber.App, path, key, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(payload)
}

func TestIdempotencyRequiresHeaderWhenConfigured(t *testing.T) {
	app, _ := setupIdempotencyApp(t, true)
	resp, _ := postWithKey(t, app, "/resource", "", "{}")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIdempotencyOptionalHeaderPassesThrough(t *testing.T) {
	app, calls := setupIdempotencyApp(t, false)
	postWithKey(t, app, "/resource", "", "{}")
	postWithKey(t, app, "/resource", "", "{}")
	assert.EqualValues(t, 2, calls.Load())
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls := setupIdempotencyApp(t, true)

	first, firstBody := postWithKey(t, app, "/resource", "abc123", `{"a":1}`)
	require.Equal(t, fiber.StatusCreated, first.StatusCode)

	second, secondBody := postWithKey(t, app, "/resource", "abc123", `{"a":1}`)
	assert.Equal(t, fiber.StatusCreated, second.StatusCode)
	assert.Equal(t, firstBody, secondBody)
	assert.Equal(t, "true", second.Header.Get("Idempotent-Replayed"))
	assert.EqualValues(t, 1, calls.Load())
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	app, calls := setupIdempotencyApp(t, true)

	postWithKey(t, app, "/resource", "k1", `{"a":1}`)
	resp, _ := postWithKey(t, app, "/resource", "k1", `{"a":2}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}

func TestIdempotencyDoesNotStoreServerErrors(t *testing.T) {
	app, calls := setupIdempotencyApp(t, true)

	postWithKey(t, app, "/flaky", "k2", `{}`)
	resp, _ := postWithKey(t, app, "/flaky", "k2", `{}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.EqualValues(t, 2, calls.Load())
}

func TestIdempotencyNilCacheIsNoop(t *testing.T) {
	app := fiber.New()
	app.Use(Idempotency(nil, IdempotencyOptions{Required: true}, logging.Discard()))
	app.Post("/resource", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, _ := postWithKey(t, app, "/resource", "", "{}")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
