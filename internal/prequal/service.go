// Package prequal sequences a prequalification attempt: consent and identity
// checks, the bureau pull, classification and offer generation, with an
// audit event around every external call.
package prequal

import (
	"context"
	"log/slog"
	"time"

	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/consent"
	"github.com/forward-rent/prequal/internal/creditpull"
	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/logging"
	"github.com/forward-rent/prequal/internal/notification"
	"github.com/forward-rent/prequal/internal/offers"
	"github.com/forward-rent/prequal/internal/risk"
	"github.com/forward-rent/prequal/internal/validation"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Consents    *consent.Service
	Applicants  *applicant.Service
	Listings    *listing.Service
	CreditPulls *creditpull.Service
	Offers      *offers.Service
	Recorder    *audit.Recorder
	Gateway     bureau.Gateway
	Notifier    notification.Notifier
	Logger      *slog.Logger
}

// Service runs prequalification attempts. Concurrent attempts for the same
// consent are not deduplicated; each produces its own pull and menu.
type Service struct {
	deps Deps
	now  func() time.Time
}

// NewService builds an orchestrator.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &Service{deps: deps, now: func() time.Time { return time.Now().UTC() }}
}

// Request is one prequalification attempt.
type Request struct {
	ApplicantID    string    `validate:"required"`
	ListingID      string    `validate:"required"`
	ConsentID      string    `validate:"required"`
	SignedAt       time.Time `validate:"required"`
	IdentityNumber string    `validate:"required,min=9"`
}

// Result is the outcome of a successful attempt.
type Result struct {
	Menu        offers.Menu
	Consent     consent.Consent
	CreditPull  creditpull.Record
	CompletedAt time.Time
}

// Submit runs the pipeline. Any failure stops it where it is; audit events
// already written stay in place.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	if err := validation.Struct(req); err != nil {
		return Result{}, err
	}

	signed, err := s.deps.Consents.Verify(ctx, req.ConsentID, req.ApplicantID, req.ListingID, req.SignedAt)
	if err != nil {
		return Result{}, err
	}

	app, err := s.deps.Applicants.Get(ctx, req.ApplicantID)
	if err != nil {
		return Result{}, err
	}
	lst, err := s.deps.Listings.Get(ctx, req.ListingID)
	if err != nil {
		return Result{}, err
	}
	if err := s.deps.Applicants.VerifyIdentity(app, req.IdentityNumber); err != nil {
		return Result{}, err
	}

	if _, err := s.deps.Recorder.Record(ctx, audit.KindCreditPullRequested, audit.ActorTenant, map[string]any{
		audit.MetaApplicantID:        req.ApplicantID,
		audit.MetaListingID:          req.ListingID,
		audit.MetaConsentID:          req.ConsentID,
		audit.MetaPermissiblePurpose: audit.PermissiblePurposeTenantScreening,
	}); err != nil {
		return Result{}, err
	}

	payload := payloadFor(app, req.IdentityNumber)
	response, err := s.deps.Gateway.RequestPrequalification(ctx, payload)
	if err != nil {
		s.deps.Logger.Warn("credit pull failed",
			slog.String("applicant_id", req.ApplicantID),
			slog.String("listing_id", req.ListingID),
			slog.String("error", err.Error()))
		if _, recErr := s.deps.Recorder.Record(ctx, audit.KindCreditPullFailed, audit.ActorSystem, map[string]any{
			audit.MetaApplicantID: req.ApplicantID,
			audit.MetaListingID:   req.ListingID,
			audit.MetaConsentID:   req.ConsentID,
			audit.MetaError:       err.Error(),
		}); recErr != nil {
			s.deps.Logger.Error("record credit pull failure", slog.String("error", recErr.Error()))
		}
		return Result{}, err
	}

	pull, err := s.deps.CreditPulls.RecordSuccess(ctx, creditpull.RecordInput{
		ApplicantID: req.ApplicantID,
		ListingID:   req.ListingID,
		ConsentID:   req.ConsentID,
		Payload:     payload,
		Response:    response,
	})
	if err != nil {
		return Result{}, err
	}
	if _, err := s.deps.Recorder.Record(ctx, audit.KindCreditPullSucceeded, audit.ActorSystem, map[string]any{
		audit.MetaCreditPullID:       pull.ID,
		audit.MetaApplicantID:        req.ApplicantID,
		audit.MetaListingID:          req.ListingID,
		audit.MetaConsentID:          req.ConsentID,
		audit.MetaPermissiblePurpose: audit.PermissiblePurposeTenantScreening,
	}); err != nil {
		return Result{}, err
	}

	classification := risk.Classify(response)
	menu, err := s.deps.Offers.Generate(ctx, offers.GenerateInput{
		ListingID:      req.ListingID,
		ApplicantID:    req.ApplicantID,
		CreditPullID:   pull.ID,
		Policy:         lst.Policy,
		Classification: classification,
	})
	if err != nil {
		return Result{}, err
	}

	s.notifyLandlord(ctx, lst, menu)

	s.deps.Logger.Info("prequalification completed",
		slog.String("applicant_id", req.ApplicantID),
		slog.String("listing_id", req.ListingID),
		slog.String("credit_pull_id", pull.ID),
		slog.String("offer_id", menu.ID),
		slog.String("band", string(menu.RiskBand)))

	return Result{Menu: menu, Consent: signed, CreditPull: pull, CompletedAt: s.now()}, nil
}

func (s *Service) notifyLandlord(ctx context.Context, lst listing.Listing, menu offers.Menu) {
	if s.deps.Notifier == nil || lst.LandlordEmail == "" {
		return
	}
	msg := notification.OffersGenerated(lst.LandlordEmail, lst.Address, menu.ID, string(menu.RiskBand), len(menu.Bundles))
	if err := s.deps.Notifier.Send(ctx, msg); err != nil {
		s.deps.Logger.Warn("landlord notification failed", slog.String("offer_id", menu.ID), slog.String("error", err.Error()))
	}
}

func payloadFor(a applicant.Applicant, identity string) bureau.Payload {
	return bureau.Payload{
		FirstName:      a.FirstName,
		MiddleName:     a.MiddleName,
		LastName:       a.LastName,
		BirthDate:      a.BirthDate,
		IdentityNumber: identity,
		Address: bureau.Address{
			Line1:      a.Address.Line1,
			Line2:      a.Address.Line2,
			City:       a.Address.City,
			State:      a.Address.State,
			PostalCode: a.Address.PostalCode,
		},
	}
}
