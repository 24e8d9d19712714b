package prequal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/forward-rent/prequal/internal/applicant"
	"github.com/forward-rent/prequal/internal/apperr"
	"github.com/forward-rent/prequal/internal/audit"
	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/consent"
	"github.com/forward-rent/prequal/internal/creditpull"
	"github.com/forward-rent/prequal/internal/fingerprint"
	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/logging"
	"github.com/forward-rent/prequal/internal/notification"
	"github.com/forward-rent/prequal/internal/offers"
	"github.com/forward-rent/prequal/internal/risk"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) RequestPrequalification(ctx context.Context, payload bureau.Payload) (map[string]any, error) {
	args := m.Called(ctx, payload)
	resp, _ := args.Get(0).(map[string]any)
	return resp, args.Error(1)
}

type recordingNotifier struct {
	sent []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.sent = append(n.sent, msg)
	return nil
}

type fixture struct {
	svc       *Service
	gateway   *mockGateway
	notifier  *recordingNotifier
	recorder  *audit.Recorder
	offers    *offers.Service
	pulls     *creditpull.Service
	applicant applicant.Applicant
	listing   listing.Listing
	consent   consent.Consent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	// A fixed clock makes ordering rest on the append sequence alone.
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	recorder := audit.NewRecorder(audit.NewMemoryRepository(), logging.Discard()).WithClock(func() time.Time { return at })

	listings := listing.NewService(listing.NewMemoryRepository())
	applicants := applicant.NewService(applicant.NewMemoryRepository(), fingerprint.NewHasher(""))
	consents := consent.NewService(consent.NewMemoryRepository(), applicants, listings, recorder, 0)
	sealer, err := creditpull.NewSealer("")
	require.NoError(t, err)
	pulls := creditpull.NewService(creditpull.NewMemoryRepository(), sealer, recorder)
	offerSvc := offers.NewService(offers.NewMemoryRepository(), recorder, logging.Discard())

	lst, err := listings.Create(ctx, listing.CreateInput{
		LandlordName:  "Demo Landlord",
		LandlordEmail: "landlord@example.com",
		Address:       "456 Demo St, San Francisco, CA",
		Policy: listing.Policy{
			BaseRent:           2800,
			MinDeposit:         1400,
			MaxDeposit:         5600,
			MinTermMonths:      3,
			MaxTermMonths:      12,
			AutopayDiscountMax: 50,
		},
	})
	require.NoError(t, err)

	app, err := applicants.Register(ctx, applicant.RegisterInput{
		FirstName:      "Kylia",
		LastName:       "Paolimelli",
		BirthDate:      "1990-01-15",
		IdentityNumber: "666001234",
		Address:        applicant.Address{Line1: "123 Test Ave", City: "San Francisco", State: "CA", PostalCode: "94102"},
	})
	require.NoError(t, err)

	signed, err := consents.Sign(ctx, consent.SignInput{
		ApplicantID:  app.ID,
		ListingID:    lst.ID,
		SignedName:   "Kylia Paolimelli",
		ConsentGiven: true,
	})
	require.NoError(t, err)

	gateway := &mockGateway{}
	notifier := &recordingNotifier{}
	svc := NewService(Deps{
		Consents:    consents,
		Applicants:  applicants,
		Listings:    listings,
		CreditPulls: pulls,
		Offers:      offerSvc,
		Recorder:    recorder,
		Gateway:     gateway,
		Notifier:    notifier,
		Logger:      logging.Discard(),
	})

	return &fixture{
		svc:       svc,
		gateway:   gateway,
		notifier:  notifier,
		recorder:  recorder,
		offers:    offerSvc,
		pulls:     pulls,
		applicant: app,
		listing:   lst,
		consent:   signed,
	}
}

func (f *fixture) request(identity string) Request {
	return Request{
		ApplicantID:    f.applicant.ID,
		ListingID:      f.listing.ID,
		ConsentID:      f.consent.ID,
		SignedAt:       f.consent.SignedAt,
		IdentityNumber: identity,
	}
}

func (f *fixture) trailKinds(t *testing.T) []audit.Kind {
	t.Helper()
	events, err := f.recorder.Trail(context.Background(), audit.Filter{ApplicantID: f.applicant.ID})
	require.NoError(t, err)
	kinds := make([]audit.Kind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestSubmitEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.On("RequestPrequalification", mock.Anything, mock.MatchedBy(func(p bureau.Payload) bool {
		return p.FirstName == "Kylia" && p.Address.PostalCode == "94102"
	})).Return(map[string]any{"score": 760.0}, nil).Once()

	res, err := f.svc.Submit(ctx, f.request("666-00-1234"))
	require.NoError(t, err)
	f.gateway.AssertExpectations(t)

	assert.Equal(t, risk.BandA, res.Menu.RiskBand)
	assert.False(t, res.Menu.LimitedData)
	require.Len(t, res.Menu.Bundles, 4)
	recommended, ok := res.Menu.Recommended()
	require.True(t, ok)
	assert.Equal(t, offers.NameBalanced, recommended.Name)
	assert.Equal(t, 2975.0, recommended.Deposit)
	assert.Equal(t, 2800.0, recommended.Rent)
	assert.Equal(t, 55.0, recommended.AutopayDiscount)

	assert.Equal(t, res.CreditPull.ID, res.Menu.CreditPullID)
	assert.Equal(t, "1234", res.CreditPull.Request.IdentityLast4)
	require.NotNil(t, res.CreditPull.Summary)
	assert.Empty(t, res.CreditPull.EncryptedResponse)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "landlord@example.com", f.notifier.sent[0].Destination)

	_, err = f.offers.View(ctx, res.Menu.ID)
	require.NoError(t, err)

	assert.Equal(t, []audit.Kind{
		audit.KindConsentSigned,
		audit.KindCreditPullRequested,
		audit.KindCreditPullSucceeded,
		audit.KindOffersGenerated,
		audit.KindOfferViewed,
	}, f.trailKinds(t))

	events, err := f.recorder.Trail(ctx, audit.Filter{ApplicantID: f.applicant.ID})
	require.NoError(t, err)
	assert.Equal(t, audit.ActorTenant, events[1].Actor)
	assert.Equal(t, audit.ActorSystem, events[2].Actor)
	assert.Equal(t, res.CreditPull.ID, events[2].Metadata[audit.MetaCreditPullID])
	assert.Equal(t, audit.ActorLandlord, events[4].Actor)
}

func TestSubmitIdentityMismatchSkipsBureau(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.request("666001235"))
	require.Error(t, err)
	assert.ErrorIs(t, err, applicant.ErrIdentityMismatch)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.gateway.AssertNotCalled(t, "RequestPrequalification", mock.Anything, mock.Anything)
	assert.Equal(t, []audit.Kind{audit.KindConsentSigned}, f.trailKinds(t))
}

func TestSubmitConsentTimestampSkew(t *testing.T) {
	f := newFixture(t)

	req := f.request("666001234")
	req.SignedAt = f.consent.SignedAt.Add(61 * time.Second)
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, consent.ErrTimestamp)
	f.gateway.AssertNotCalled(t, "RequestPrequalification", mock.Anything, mock.Anything)

	f.gateway.On("RequestPrequalification", mock.Anything, mock.Anything).Return(map[string]any{"score": 700.0}, nil).Once()
	req.SignedAt = f.consent.SignedAt.Add(59 * time.Second)
	res, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, risk.BandB, res.Menu.RiskBand)
}

func TestSubmitConsentForOtherListing(t *testing.T) {
	f := newFixture(t)

	req := f.request("666001234")
	req.ListingID = f.applicant.ID
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, consent.ErrMismatch)
	f.gateway.AssertNotCalled(t, "RequestPrequalification", mock.Anything, mock.Anything)
}

func TestSubmitBureauFailure(t *testing.T) {
	f := newFixture(t)
	bureauErr := &apperr.Error{Kind: apperr.KindBureau, Message: "credit prequal request failed", Err: errors.New("status 503: down"), Status: 503}
	f.gateway.On("RequestPrequalification", mock.Anything, mock.Anything).Return(nil, bureauErr).Once()

	_, err := f.svc.Submit(context.Background(), f.request("666001234"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrBureau)

	assert.Equal(t, []audit.Kind{
		audit.KindConsentSigned,
		audit.KindCreditPullRequested,
		audit.KindCreditPullFailed,
	}, f.trailKinds(t))

	events, err := f.recorder.Trail(context.Background(), audit.Filter{ApplicantID: f.applicant.ID})
	require.NoError(t, err)
	assert.Contains(t, events[2].Metadata[audit.MetaError], "status 503")
	assert.Empty(t, f.notifier.sent)
}

func TestSubmitWithoutScoreIsLimitedData(t *testing.T) {
	f := newFixture(t)
	f.gateway.On("RequestPrequalification", mock.Anything, mock.Anything).Return(map[string]any{"raw": "<html>"}, nil).Once()

	res, err := f.svc.Submit(context.Background(), f.request("666001234"))
	require.NoError(t, err)
	assert.Equal(t, risk.BandC, res.Menu.RiskBand)
	assert.True(t, res.Menu.LimitedData)
	assert.Equal(t, []string{
		"Limited file: offer terms are conservative",
		"Moderate risk: deposit at mid-range, standard terms",
	}, res.Menu.Factors)
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), Request{ApplicantID: f.applicant.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	f.gateway.AssertNotCalled(t, "RequestPrequalification", mock.Anything, mock.Anything)
}
