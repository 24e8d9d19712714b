package applicant

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes applicant endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an applicant HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	FirstName      string  `json:"firstName"`
	MiddleName     string  `json:"middleName"`
	LastName       string  `json:"lastName"`
	BirthDate      string  `json:"birthDate"`
	IdentityNumber string  `json:"ssn"`
	Address        Address `json:"currentAddress"`
}

// applicantResponse deliberately omits the fingerprint.
type applicantResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	MiddleName    string    `json:"middleName,omitempty"`
	LastName      string    `json:"lastName"`
	BirthDate     string    `json:"birthDate"`
	IdentityLast4 string    `json:"ssnLast4"`
	Address       Address   `json:"currentAddress"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Register handles applicant onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	a, err := h.service.Register(c.UserContext(), RegisterInput{
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		BirthDate:      req.BirthDate,
		IdentityNumber: req.IdentityNumber,
		Address:        req.Address,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(a))
}

// List returns all applicants.
func (h *Handler) List(c *fiber.Ctx) error {
	all, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]applicantResponse, 0, len(all))
	for _, a := range all {
		out = append(out, toResponse(a))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns a single applicant.
func (h *Handler) Get(c *fiber.Ctx) error {
	a, err := h.service.Get(c.UserContext(), c.Params("applicantId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(a))
}

func toResponse(a Applicant) applicantResponse {
	return applicantResponse{
		ID:            a.ID,
		FirstName:     a.FirstName,
		MiddleName:    a.MiddleName,
		LastName:      a.LastName,
		BirthDate:     a.BirthDate,
		IdentityLast4: a.IdentityLast4,
		Address:       a.Address,
		CreatedAt:     a.CreatedAt,
	}
}
