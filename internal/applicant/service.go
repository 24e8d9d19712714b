package applicant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/fingerprint"
	"github.com/forward-rent/prequal/internal/validation"
)

// ErrIdentityMismatch indicates the supplied identity number does not derive
// the stored last-4 and fingerprint.
var ErrIdentityMismatch = errors.New("identity number does not match applicant record")

// Service manages applicant records and identity verification.
type Service struct {
	repo   Repository
	hasher fingerprint.Hasher
}

// NewService creates a new applicant service.
func NewService(repo Repository, hasher fingerprint.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Register stores an applicant with only the derived identity values.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Applicant, error) {
	if err := validation.Struct(input); err != nil {
		return Applicant{}, err
	}
	digits := fingerprint.Normalize(input.IdentityNumber)
	if len(digits) < 9 {
		return Applicant{}, apperr.Validation("identity number must contain at least 9 digits")
	}

	a := Applicant{
		ID:                  uuid.New().String(),
		FirstName:           input.FirstName,
		MiddleName:          input.MiddleName,
		LastName:            input.LastName,
		BirthDate:           input.BirthDate,
		IdentityLast4:       fingerprint.LastFour(digits),
		IdentityFingerprint: s.hasher.Fingerprint(digits),
		Address:             input.Address,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Applicant{}, apperr.Persistence("create applicant", err)
	}
	return a, nil
}

// Get fetches an applicant.
func (s *Service) Get(ctx context.Context, id string) (Applicant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Applicant{}, apperr.NotFound("applicant not found")
		}
		return Applicant{}, apperr.Persistence("find applicant", err)
	}
	return a, nil
}

// List returns every applicant, newest first.
func (s *Service) List(ctx context.Context) ([]Applicant, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list applicants", err)
	}
	return out, nil
}

// VerifyIdentity re-derives last-4 and fingerprint from identity and requires
// both to equal the stored values.
func (s *Service) VerifyIdentity(a Applicant, identity string) error {
	if !s.hasher.Matches(identity, a.IdentityLast4, a.IdentityFingerprint) {
		return apperr.New(apperr.KindValidation, ErrIdentityMismatch.Error(), ErrIdentityMismatch)
	}
	return nil
}
