package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/consent"
)

// RegisterApplicantRoutes wires applicant onboarding and consent endpoints.
func RegisterApplicantRoutes(r fiber.Router, svc *Services) {
	h := applicant.NewHandler(svc.Applicants)
	r.Post("/applicants", h.Register)
	r.Get("/applicants", h.List)
	r.Get("/applicants/:applicantId", h.Get)

	ch := consent.NewHandler(svc.Consents)
	r.Get("/consent", ch.Text)
	r.Post("/consent", ch.Sign)
}
