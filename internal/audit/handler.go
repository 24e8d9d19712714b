package audit

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the audit trail.
type Handler struct {
	recorder *Recorder
}

// NewHandler constructs an audit trail handler.
func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// Trail lists events filtered by offerId, listingId and applicantId query params.
func (h *Handler) Trail(c *fiber.Ctx) error {
	events, err := h.recorder.Trail(c.UserContext(), Filter{
		OfferID:     c.Query("offerId"),
		ListingID:   c.Query("listingId"),
		ApplicantID: c.Query("applicantId"),
	})
	if err != nil {
		return err
	}
	if events == nil {
		events = []Event{}
	}
	return c.Status(http.StatusOK).JSON(events)
}
