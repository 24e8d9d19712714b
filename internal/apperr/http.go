package apperr

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// HTTPStatus maps err to the status code returned to API callers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBureau, KindBureauAuth:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body renders err as a JSON-friendly map. Bureau failures carry the
// upstream detail; infrastructure failures carry nothing beyond a message.
func Body(err error) map[string]any {
	body := map[string]any{"error": PublicMessage(err)}
	var e *Error
	if !errors.As(err, &e) {
		return body
	}
	switch e.Kind {
	case KindBureau, KindBureauAuth:
		if e.Err != nil {
			body["detail"] = e.Err.Error()
		}
		if e.Status != 0 {
			body["upstreamStatus"] = e.Status
		}
	case KindValidation:
		if len(e.Fields) > 0 {
			body["fields"] = e.Fields
		}
	}
	return body
}

// FiberErrorHandler renders errors returned by handlers. *fiber.Error values
// keep their own code.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(HTTPStatus(err)).JSON(Body(err))
}
