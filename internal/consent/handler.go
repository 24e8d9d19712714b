package consent

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes consent endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a consent handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type signRequest struct {
	ApplicantID  string `json:"applicantId"`
	ListingID    string `json:"listingId"`
	SignedName   string `json:"signedName"`
	ConsentGiven bool   `json:"consentGiven"`
}

// Text returns the consent wording the tenant signs.
func (h *Handler) Text(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"consentText": Text, "version": TextVersion})
}

// Sign records the tenant's consent.
func (h *Handler) Sign(c *fiber.Ctx) error {
	var req signRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	signed, err := h.service.Sign(c.UserContext(), SignInput{
		ApplicantID:  req.ApplicantID,
		ListingID:    req.ListingID,
		SignedName:   req.SignedName,
		ConsentGiven: req.ConsentGiven,
		IPAddress:    c.IP(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"consentId":          signed.ID,
		"signedAt":           signed.SignedAt.Format(time.RFC3339Nano),
		"permissiblePurpose": signed.PurposeCode,
	})
}
