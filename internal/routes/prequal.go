package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forward-rent/prequal/internal/creditpull"
	"github.com/forward-rent/prequal/internal/offers"
	"github.com/forward-rent/prequal/internal/prequal"
)

// RegisterPrequalRoutes wires prequalification, credit pull review and offer
// endpoints.
func RegisterPrequalRoutes(r fiber.Router, svc *Services, rateLimiter fiber.Handler) {
	h := prequal.NewHandler(svc.Prequal)
	if rateLimiter != nil {
		r.Post("/prequal", rateLimiter, h.Submit)
	} else {
		r.Post("/prequal", h.Submit)
	}

	oh := offers.NewHandler(svc.Offers)
	r.Get("/offers/:offerId", oh.Get)

	ch := creditpull.NewHandler(svc.CreditPulls)
	r.Get("/credit-pulls/:creditPullId", ch.Get)
	r.Get("/credit-pulls/:creditPullId/response", ch.Response)
}
