package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Validation("consent mismatch"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrBureau))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestPublicMessageHidesInfrastructureDetail(t *testing.T) {
	assert.Equal(t, "internal error", PublicMessage(Persistence("insert offer", errors.New("pg: connection reset"))))
	assert.Equal(t, "internal error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "identity number does not match applicant record", PublicMessage(Validation("identity number does not match applicant record")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := New(KindBureau, "bureau request failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatusAndBody(t *testing.T) {
	bureauErr := &Error{Kind: KindBureau, Message: "credit prequal request failed", Err: errors.New("status 503: down"), Status: 503}

	assert.Equal(t, 502, HTTPStatus(bureauErr))
	assert.Equal(t, 400, HTTPStatus(Validation("bad")))
	assert.Equal(t, 404, HTTPStatus(NotFound("offer not found")))
	assert.Equal(t, 500, HTTPStatus(errors.New("x")))

	body := Body(bureauErr)
	assert.Equal(t, "credit prequal request failed", body["error"])
	assert.Equal(t, "status 503: down", body["detail"])
	assert.Equal(t, 503, body["upstreamStatus"])

	assert.Equal(t, map[string]any{"error": "internal error"}, Body(Persistence("insert", errors.New("secret dsn"))))
}

func TestFiberErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound("offer not found") })
	app.Get("/bad", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusBadRequest, "malformed body") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "offer not found", body["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
