package routes

import (
	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/consent"
	"github.com/forward-rent/prequal/internal/creditpull"
	"github.com/forward-rent/prequal/internal/fingerprint"
	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/notification"
	"github.com/forward-rent/prequal/internal/offers"
	"github.com/forward-rent/prequal/internal/prequal"
)

// Services holds the domain services behind the HTTP API.
type Services struct {
	Listings    *listing.Service
	Applicants  *applicant.Service
	Consents    *consent.Service
	Recorder    *audit.Recorder
	CreditPulls *creditpull.Service
	Offers      *offers.Service
	Prequal     *prequal.Service
}

// NewServices builds every service, backed by Postgres when d.DB is set and
// by in-memory stores otherwise.
func NewServices(d Deps) (*Services, error) {
	var (
		listingRepo    listing.Repository
		applicantRepo  applicant.Repository
		consentRepo    consent.Repository
		auditRepo      audit.Repository
		creditPullRepo creditpull.Repository
		offerRepo      offers.Repository
	)
	if d.DB != nil {
		listingRepo = listing.NewPostgresRepository(d.DB)
		applicantRepo = applicant.NewPostgresRepository(d.DB)
		consentRepo = consent.NewPostgresRepository(d.DB)
		auditRepo = audit.NewPostgresRepository(d.DB)
		creditPullRepo = creditpull.NewPostgresRepository(d.DB)
		offerRepo = offers.NewPostgresRepository(d.DB)
	} else {
		listingRepo = listing.NewMemoryRepository()
		applicantRepo = applicant.NewMemoryRepository()
		consentRepo = consent.NewMemoryRepository()
		auditRepo = audit.NewMemoryRepository()
		creditPullRepo = creditpull.NewMemoryRepository()
		offerRepo = offers.NewMemoryRepository()
	}

	sealer, err := creditpull.NewSealer(d.Cfg.EncryptionSecret)
	if err != nil {
		return nil, err
	}
	if !sealer.Encrypts() && d.Logger != nil {
		d.Logger.Warn("ENCRYPTION_SECRET unset or shorter than 32 characters; storing bureau response summaries only")
	}

	gateway := d.Gateway
	if gateway == nil {
		gateway = bureau.New(d.Cfg.Bureau, d.Logger)
	}

	recorder := audit.NewRecorder(auditRepo, d.Logger)
	listings := listing.NewService(listingRepo)
	applicants := applicant.NewService(applicantRepo, fingerprint.NewHasher(d.Cfg.IdentitySalt))
	s := &Services{
		Listings:    listings,
		Applicants:  applicants,
		Consents:    consent.NewService(consentRepo, applicants, listings, recorder, d.Cfg.ConsentSkew),
		Recorder:    recorder,
		CreditPulls: creditpull.NewService(creditPullRepo, sealer, recorder),
		Offers:      offers.NewService(offerRepo, recorder, d.Logger),
	}
	s.Offers.WithLookups(offers.Lookups{
		Listings:    s.Listings,
		Applicants:  s.Applicants,
		CreditPulls: s.CreditPulls,
	})
	s.Prequal = prequal.NewService(prequal.Deps{
		Consents:    s.Consents,
		Applicants:  s.Applicants,
		Listings:    s.Listings,
		CreditPulls: s.CreditPulls,
		Offers:      s.Offers,
		Recorder:    recorder,
		Gateway:     gateway,
		Notifier:    notification.NewLoggerNotifier(d.Logger),
		Logger:      d.Logger,
	})
	return s, nil
}
