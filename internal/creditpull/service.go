package creditpull

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/fingerprint"
)

// Service records completed bureau round trips.
type Service struct {
	repo     Repository
	sealer   *Sealer
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService builds a credit pull service. Decrypted reads are recorded on
// recorder.
func NewService(repo Repository, sealer *Sealer, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, sealer: sealer, recorder: recorder, now: func() time.Time { return time.Now().UTC() }}
}

// RecordInput describes one successful pull.
type RecordInput struct {
	ApplicantID string
	ListingID   string
	ConsentID   string
	Payload     bureau.Payload
	Response    map[string]any
}

// Redact keeps the identifying fields of p needed for audit, with only the
// last four digits of the identity number.
func Redact(p bureau.Payload) RedactedRequest {
	return RedactedRequest{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		BirthDate:     p.BirthDate,
		IdentityLast4: fingerprint.LastFour(p.IdentityNumber),
		Address:       p.Address,
	}
}

// RecordSuccess seals the response and stores a success record.
func (s *Service) RecordSuccess(ctx context.Context, input RecordInput) (Record, error) {
	rec := Record{
		ID:          uuid.NewString(),
		ApplicantID: input.ApplicantID,
		ListingID:   input.ListingID,
		ConsentID:   input.ConsentID,
		Bureau:      bureau.Name,
		Endpoint:    bureau.Endpoint,
		Status:      StatusSuccess,
		Request:     Redact(input.Payload),
		CreatedAt:   s.now(),
	}
	if err := s.sealer.Seal(&rec, input.Response); err != nil {
		return Record{}, apperr.New(apperr.KindInternal, "seal bureau response", err)
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, apperr.Persistence("create credit pull", err)
	}
	return rec, nil
}

// Get fetches a stored pull.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, apperr.NotFound("credit pull not found")
		}
		return Record{}, apperr.Persistence("find credit pull", err)
	}
	return rec, nil
}

// Response returns the decrypted bureau response of a stored pull. The read
// is recorded as CREDIT_PULL_RESPONSE_VIEWED before the plaintext is handed
// out; if the event cannot be written nothing is returned.
func (s *Service) Response(ctx context.Context, id string) (map[string]any, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.sealer.Open(rec)
	if errors.Is(err, ErrNotEncrypted) {
		return nil, apperr.NotFound("credit pull response is stored as a summary only")
	}
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "open bureau response", err)
	}

	if _, err := s.recorder.Record(ctx, audit.KindCreditPullResponseViewed, audit.ActorLandlord, map[string]any{
		audit.MetaCreditPullID: rec.ID,
		audit.MetaApplicantID:  rec.ApplicantID,
		audit.MetaListingID:    rec.ListingID,
		audit.MetaConsentID:    rec.ConsentID,
	}); err != nil {
		return nil, err
	}
	return out, nil
}
