package offers

import (
	"time"

	"github.com/forward-rent/prequal/internal/creditpull"
	"github.com/forward-rent/prequal/internal/risk"
)

// View is the client representation of a menu.
type View struct {
	OfferID            string    `json:"offerId"`
	ListingID          string    `json:"listingId"`
	ApplicantID        string    `json:"applicantId"`
	CreditPullID       string    `json:"creditPullId"`
	RiskBand           risk.Band `json:"riskBand"`
	LimitedData        bool      `json:"limitedData"`
	Factors            []string  `json:"factors"`
	Offers             []Bundle  `json:"offers"`
	RecommendedOfferID string    `json:"recommendedOfferId"`
	CreatedAt          time.Time `json:"createdAt"`

	Listing    *ListingView    `json:"listing,omitempty"`
	Applicant  *ApplicantView  `json:"applicant,omitempty"`
	CreditPull *CreditPullView `json:"creditPull,omitempty"`
}

// ListingView is the part of a listing shown beside its offers.
type ListingView struct {
	ID           string  `json:"id"`
	Address      string  `json:"address"`
	BaseRent     float64 `json:"baseRent"`
	LandlordName string  `json:"landlordName,omitempty"`
}

// ApplicantView names the applicant. Identity data is never included.
type ApplicantView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreditPullView is the redacted pull behind a menu. The sealed response is
// reduced to a flag.
type CreditPullView struct {
	ID                     string                     `json:"id"`
	RequestPayloadRedacted creditpull.RedactedRequest `json:"requestPayloadRedacted"`
	ResponseSummary        *risk.Summary              `json:"responseSummary"`
	ResponseEncrypted      bool                       `json:"responseEncrypted"`
	CreatedAt              time.Time                  `json:"createdAt"`
}

// ToView converts m for responses.
func ToView(m Menu) View {
	factors := m.Factors
	if factors == nil {
		factors = []string{}
	}
	return View{
		OfferID:            m.ID,
		ListingID:          m.ListingID,
		ApplicantID:        m.ApplicantID,
		CreditPullID:       m.CreditPullID,
		RiskBand:           m.RiskBand,
		LimitedData:        m.LimitedData,
		Factors:            factors,
		Offers:             m.Bundles,
		RecommendedOfferID: m.RecommendedBundleID,
		CreatedAt:          m.CreatedAt,
	}
}

// ToDetailView converts d, including whichever referenced entities were
// resolved.
func ToDetailView(d Detail) View {
	v := ToView(d.Menu)
	if d.Listing != nil {
		v.Listing = &ListingView{
			ID:           d.Listing.ID,
			Address:      d.Listing.Address,
			BaseRent:     d.Listing.Policy.BaseRent,
			LandlordName: d.Listing.LandlordName,
		}
	}
	if d.Applicant != nil {
		v.Applicant = &ApplicantView{
			ID:        d.Applicant.ID,
			FirstName: d.Applicant.FirstName,
			LastName:  d.Applicant.LastName,
		}
	}
	if d.CreditPull != nil {
		v.CreditPull = &CreditPullView{
			ID:                     d.CreditPull.ID,
			RequestPayloadRedacted: d.CreditPull.Request,
			ResponseSummary:        d.CreditPull.Summary,
			ResponseEncrypted:      d.CreditPull.EncryptedResponse != "",
			CreatedAt:              d.CreditPull.CreatedAt,
		}
	}
	return v
}
