package listing

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes listing HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a listing HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	LandlordName  string `json:"landlordName"`
	LandlordEmail string `json:"landlordEmail"`
	Address       string `json:"address"`
	Policy
}

type listingResponse struct {
	ID            string    `json:"id"`
	LandlordName  string    `json:"landlordName,omitempty"`
	LandlordEmail string    `json:"landlordEmail,omitempty"`
	Address       string    `json:"address"`
	Policy        Policy    `json:"policy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Create stores a listing and its rent policy.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	l, err := h.service.Create(c.UserContext(), CreateInput{
		LandlordName:  req.LandlordName,
		LandlordEmail: req.LandlordEmail,
		Address:       req.Address,
		Policy:        req.Policy,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(l))
}

// List returns all listings.
func (h *Handler) List(c *fiber.Ctx) error {
	listings, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toResponse(l))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns a single listing.
func (h *Handler) Get(c *fiber.Ctx) error {
	l, err := h.service.Get(c.UserContext(), c.Params("listingId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(l))
}

func toResponse(l Listing) listingResponse {
	return listingResponse{
		ID:            l.ID,
		LandlordName:  l.LandlordName,
		LandlordEmail: l.LandlordEmail,
		Address:       l.Address,
		Policy:        l.Policy,
		CreatedAt:     l.CreatedAt,
	}
}
