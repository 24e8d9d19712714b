package offers

import (
	"context"
	"errors"

	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/creditpull"
	"github.com/forward-rent/prequal/internal/listing"
)

// ListingReader reads the listing a menu was generated for.
type ListingReader interface {
	Get(ctx context.Context, id string) (listing.Listing, error)
}

// ApplicantReader reads the applicant a menu was generated for.
type ApplicantReader interface {
	Get(ctx context.Context, id string) (applicant.Applicant, error)
}

// CreditPullReader reads the credit pull behind a menu.
type CreditPullReader interface {
	Get(ctx context.Context, id string) (creditpull.Record, error)
}

// Lookups resolve the entities a menu references. Nil readers are skipped.
type Lookups struct {
	Listings    ListingReader
	Applicants  ApplicantReader
	CreditPulls CreditPullReader
}

// Detail is a menu with the entities it references.
type Detail struct {
	Menu       Menu
	Listing    *listing.Listing
	Applicant  *applicant.Applicant
	CreditPull *creditpull.Record
}

// WithLookups lets Detail resolve referenced entities.
func (s *Service) WithLookups(l Lookups) *Service {
	s.lookups = l
	return s
}

// Detail returns a menu with its listing, applicant and credit pull and
// records OFFER_VIEWED once all of them are loaded.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	menu, err := s.find(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{Menu: menu}
	if s.lookups.Listings != nil {
		l, err := s.lookups.Listings.Get(ctx, menu.ListingID)
		if err != nil {
			return Detail{}, referenceError(err, "listing")
		}
		d.Listing = &l
	}
	if s.lookups.Applicants != nil {
		a, err := s.lookups.Applicants.Get(ctx, menu.ApplicantID)
		if err != nil {
			return Detail{}, referenceError(err, "applicant")
		}
		d.Applicant = &a
	}
	if s.lookups.CreditPulls != nil {
		p, err := s.lookups.CreditPulls.Get(ctx, menu.CreditPullID)
		if err != nil {
			return Detail{}, referenceError(err, "credit pull")
		}
		d.CreditPull = &p
	}

	if err := s.recordView(ctx, menu); err != nil {
		return Detail{}, err
	}
	return d, nil
}

// referenceError turns a dangling reference into an internal error; the
// menu exists, so a missing referent is a storage inconsistency.
func referenceError(err error, what string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.New(apperr.KindInternal, "offer references a missing "+what, err)
	}
	return err
}
