package prequal

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/consent"
	"github.com/forward-rent/prequal/internal/offers"
)

// Handler exposes the prequalification endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a prequal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	ApplicantID string `json:"applicantId"`
	ListingID   string `json:"listingId"`
	ConsentID   string `json:"consentId"`
	SignedAt    string `json:"signedAt"`
	SSN         string `json:"ssn"`
}

type compliance struct {
	ConsentID          string `json:"consentId"`
	SignedAt           string `json:"signedAt"`
	RequestID          string `json:"requestId"`
	Timestamp          string `json:"timestamp"`
	PermissiblePurpose string `json:"permissiblePurpose"`
}

type submitResponse struct {
	offers.View
	Compliance compliance `json:"compliance"`
}

// Submit runs a prequalification and returns the offer menu.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	signedAt, err := time.Parse(time.RFC3339Nano, req.SignedAt)
	if err != nil {
		return apperr.New(apperr.KindValidation, consent.ErrTimestamp.Error(), consent.ErrTimestamp)
	}

	res, err := h.service.Submit(c.UserContext(), Request{
		ApplicantID:    req.ApplicantID,
		ListingID:      req.ListingID,
		ConsentID:      req.ConsentID,
		SignedAt:       signedAt,
		IdentityNumber: req.SSN,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(submitResponse{
		View: offers.ToView(res.Menu),
		Compliance: compliance{
			ConsentID:          res.Consent.ID,
			SignedAt:           res.Consent.SignedAt.Format(time.RFC3339Nano),
			RequestID:          res.CreditPull.ID,
			Timestamp:          res.CompletedAt.Format(time.RFC3339Nano),
			PermissiblePurpose: audit.PermissiblePurposeTenantScreening,
		},
	})
}
