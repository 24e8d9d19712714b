package offers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler serves generated menus.
type Handler struct {
	service *Service
}

// NewHandler constructs an offer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns a menu with its listing, applicant and credit pull. Every
// successful read is audited.
func (h *Handler) Get(c *fiber.Ctx) error {
	detail, err := h.service.Detail(c.UserContext(), c.Params("offerId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(ToDetailView(detail))
}
