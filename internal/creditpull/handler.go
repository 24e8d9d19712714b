package creditpull

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/forward-rent/prequal/internal/risk"
)

// Handler exposes stored credit pulls for compliance review.
type Handler struct {
	service *Service
}

// NewHandler constructs a credit pull handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type recordResponse struct {
	ID          string          `json:"id"`
	ApplicantID string          `json:"applicantId"`
	ListingID   string          `json:"listingId"`
	ConsentID   string          `json:"consentId"`
	Bureau      string          `json:"bureau"`
	Endpoint    string          `json:"endpoint"`
	Status      Status          `json:"status"`
	Request     RedactedRequest `json:"redactedRequest"`
	Encrypted   bool            `json:"responseEncrypted"`
	Summary     *risk.Summary   `json:"summarizedResponse,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Get returns the redacted record. The ciphertext itself is never rendered.
func (h *Handler) Get(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.UserContext(), c.Params("creditPullId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(recordResponse{
		ID:          rec.ID,
		ApplicantID: rec.ApplicantID,
		ListingID:   rec.ListingID,
		ConsentID:   rec.ConsentID,
		Bureau:      rec.Bureau,
		Endpoint:    rec.Endpoint,
		Status:      rec.Status,
		Request:     rec.Request,
		Encrypted:   rec.EncryptedResponse != "",
		Summary:     rec.Summary,
		CreatedAt:   rec.CreatedAt,
	})
}

// Response decrypts the full bureau response for forensic replay.
func (h *Handler) Response(c *fiber.Ctx) error {
	out, err := h.service.Response(c.UserContext(), c.Params("creditPullId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(out)
}
