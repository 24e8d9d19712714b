package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/validation"
)

// Service exposes listing operations.
type Service struct {
	repo Repository
}

// NewService builds a listing service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a listing.
type CreateInput struct {
	LandlordName  string
	LandlordEmail string `validate:"omitempty,email"`
	Address       string `validate:"required"`
	Policy        Policy
}

// Create validates the policy and stores a new listing.
func (s *Service) Create(ctx context.Context, input CreateInput) (Listing, error) {
	if err := validation.Struct(input); err != nil {
		return Listing{}, err
	}

	l := Listing{
		ID:            uuid.NewString(),
		LandlordName:  input.LandlordName,
		LandlordEmail: input.LandlordEmail,
		Address:       input.Address,
		Policy:        input.Policy,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, apperr.Persistence("create listing", err)
	}
	return l, nil
}

// Get retrieves a listing.
func (s *Service) Get(ctx context.Context, id string) (Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Listing{}, apperr.NotFound("listing not found")
		}
		return Listing{}, apperr.Persistence("find listing", err)
	}
	return l, nil
}

// List returns every listing, newest first.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list listings", err)
	}
	return out, nil
}
