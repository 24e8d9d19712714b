package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forward-rent/prequal/internal/audit"
)

// RegisterAuditRoutes wires the compliance trail endpoint.
func RegisterAuditRoutes(r fiber.Router, svc *Services) {
	r.Get("/audit", audit.NewHandler(svc.Recorder).Trail)
}
