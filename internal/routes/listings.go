package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forward-rent/prequal/internal/listing"
)

// RegisterListingRoutes wires landlord listing endpoints.
func RegisterListingRoutes(r fiber.Router, svc *Services) {
	h := listing.NewHandler(svc.Listings)
	r.Post("/listings", h.Create)
	r.Get("/listings", h.List)
	r.Get("/listings/:listingId", h.Get)
}
