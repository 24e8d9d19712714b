package consent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/validation"
)

// DefaultSkew is how far a caller-asserted signing time may drift from the
// stored one.
const DefaultSkew = 60 * time.Second

var (
	// ErrMismatch covers a missing consent or one bound to another applicant or listing.
	ErrMismatch = errors.New("consent record not found or does not match")
	// ErrTimestamp is returned when the asserted signing time is outside the skew.
	ErrTimestamp = errors.New("invalid or expired consent timestamp")
)

// ApplicantReader looks up the applicant a consent is signed by.
type ApplicantReader interface {
	Get(ctx context.Context, id string) (applicant.Applicant, error)
}

// ListingReader looks up the listing a consent is signed for.
type ListingReader interface {
	Get(ctx context.Context, id string) (listing.Listing, error)
}

// Service signs and verifies consents.
type Service struct {
	repo       Repository
	applicants ApplicantReader
	listings   ListingReader
	recorder   *audit.Recorder
	skew       time.Duration
	now        func() time.Time
}

// NewService builds a consent service. skew <= 0 uses DefaultSkew.
func NewService(repo Repository, applicants ApplicantReader, listings ListingReader, recorder *audit.Recorder, skew time.Duration) *Service {
	if skew <= 0 {
		skew = DefaultSkew
	}
	return &Service{
		repo:       repo,
		applicants: applicants,
		listings:   listings,
		recorder:   recorder,
		skew:       skew,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Sign stores a consent and records CONSENT_SIGNED. The applicant and
// listing must exist.
func (s *Service) Sign(ctx context.Context, input SignInput) (Consent, error) {
	if err := validation.Struct(input); err != nil {
		return Consent{}, err
	}
	if !input.ConsentGiven {
		return Consent{}, apperr.Validation("consent must be explicitly given")
	}
	if _, err := s.applicants.Get(ctx, input.ApplicantID); err != nil {
		return Consent{}, err
	}
	if _, err := s.listings.Get(ctx, input.ListingID); err != nil {
		return Consent{}, err
	}

	c := Consent{
		ID:          uuid.NewString(),
		ApplicantID: input.ApplicantID,
		ListingID:   input.ListingID,
		TextVersion: TextVersion,
		SignedName:  input.SignedName,
		SignedAt:    s.now(),
		PurposeCode: PurposeTenantScreening,
		IPAddress:   input.IPAddress,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Consent{}, apperr.Persistence("create consent", err)
	}

	if _, err := s.recorder.Record(ctx, audit.KindConsentSigned, audit.ActorTenant, map[string]any{
		audit.MetaConsentID:   c.ID,
		audit.MetaApplicantID: c.ApplicantID,
		audit.MetaListingID:   c.ListingID,
		audit.MetaSignedAt:    c.SignedAt.Format(time.RFC3339Nano),
	}); err != nil {
		return Consent{}, err
	}
	return c, nil
}

// Verify checks that consentID belongs to the applicant and listing and that
// assertedSignedAt is within the skew of the stored signing time.
func (s *Service) Verify(ctx context.Context, consentID, applicantID, listingID string, assertedSignedAt time.Time) (Consent, error) {
	c, err := s.repo.FindMatching(ctx, consentID, applicantID, listingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Consent{}, apperr.New(apperr.KindValidation, ErrMismatch.Error(), ErrMismatch)
		}
		return Consent{}, apperr.Persistence("find consent", err)
	}
	if assertedSignedAt.IsZero() {
		return Consent{}, apperr.New(apperr.KindValidation, ErrTimestamp.Error(), ErrTimestamp)
	}
	drift := assertedSignedAt.Sub(c.SignedAt)
	if drift < 0 {
		drift = -drift
	}
	if drift > s.skew {
		return Consent{}, apperr.New(apperr.KindValidation, ErrTimestamp.Error(), ErrTimestamp)
	}
	return c, nil
}
