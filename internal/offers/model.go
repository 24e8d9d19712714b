package offers

import (
	"time"

	"github.com/forward-rent/prequal/internal/risk"
)

// Bundle is one concrete set of lease terms offered to the applicant.
type Bundle struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Rent            float64 `json:"rent"`
	Deposit         float64 `json:"deposit"`
	TermMonths      int     `json:"termMonths"`
	AutopayDiscount float64 `json:"autopayDiscount"`
	MoveInFeeWaived bool    `json:"moveInFeeWaived"`
	Notes           string  `json:"notes"`
}

// Menu is the set of bundles generated from one successful credit pull.
type Menu struct {
	ID                  string
	ListingID           string
	ApplicantID         string
	CreditPullID        string
	RiskBand            risk.Band
	LimitedData         bool
	Factors             []string
	Bundles             []Bundle
	RecommendedBundleID string
	CreatedAt           time.Time
}

// Recommended returns the recommended bundle.
func (m Menu) Recommended() (Bundle, bool) {
	for _, b := range m.Bundles {
		if b.ID == m.RecommendedBundleID {
			return b, true
		}
	}
	return Bundle{}, false
}
