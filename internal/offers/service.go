package offers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/risk"
)

// Service generates and serves offer menus.
type Service struct {
	repo     Repository
	recorder *audit.Recorder
	logger   *slog.Logger
	lookups  Lookups
	now      func() time.Time
}

// NewService builds an offer service.
func NewService(repo Repository, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// GenerateInput identifies the pull a menu is generated for.
type GenerateInput struct {
	ListingID      string
	ApplicantID    string
	CreditPullID   string
	Policy         listing.Policy
	Classification risk.Result
}

// Generate synthesizes, stores and announces a menu.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (Menu, error) {
	bundles, recommendedID := Synthesize(input.Policy, input.Classification.Band)
	menu := Menu{
		ID:                  uuid.NewString(),
		ListingID:           input.ListingID,
		ApplicantID:         input.ApplicantID,
		CreditPullID:        input.CreditPullID,
		RiskBand:            input.Classification.Band,
		LimitedData:         input.Classification.LimitedData,
		Factors:             input.Classification.Factors(),
		Bundles:             bundles,
		RecommendedBundleID: recommendedID,
		CreatedAt:           s.now(),
	}
	if err := s.repo.Create(ctx, menu); err != nil {
		return Menu{}, apperr.Persistence("create offer menu", err)
	}

	if _, err := s.recorder.Record(ctx, audit.KindOffersGenerated, audit.ActorSystem, map[string]any{
		audit.MetaOfferID:     menu.ID,
		audit.MetaListingID:   menu.ListingID,
		audit.MetaApplicantID: menu.ApplicantID,
		audit.MetaRiskBand:    string(menu.RiskBand),
	}); err != nil {
		return Menu{}, err
	}

	if s.logger != nil {
		s.logger.Info("offers generated",
			slog.String("offer_id", menu.ID),
			slog.String("listing_id", menu.ListingID),
			slog.String("band", string(menu.RiskBand)),
			slog.Int("bundles", len(menu.Bundles)))
	}
	return menu, nil
}

// View returns a menu and records that it was read.
func (s *Service) View(ctx context.Context, id string) (Menu, error) {
	menu, err := s.find(ctx, id)
	if err != nil {
		return Menu{}, err
	}
	if err := s.recordView(ctx, menu); err != nil {
		return Menu{}, err
	}
	return menu, nil
}

func (s *Service) find(ctx context.Context, id string) (Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Menu{}, apperr.NotFound("offer not found")
		}
		return Menu{}, apperr.Persistence("find offer menu", err)
	}
	return menu, nil
}

func (s *Service) recordView(ctx context.Context, menu Menu) error {
	_, err := s.recorder.Record(ctx, audit.KindOfferViewed, audit.ActorLandlord, map[string]any{
		audit.MetaOfferID:     menu.ID,
		audit.MetaListingID:   menu.ListingID,
		audit.MetaApplicantID: menu.ApplicantID,
	})
	return err
}
