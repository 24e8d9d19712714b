// Package audit records the append-only compliance trail of the
// prequalification pipeline. Events are never updated or deleted; their
// chronological order is the replay sequence.
package audit

import "time"

// Kind names a pipeline milestone.
type Kind string

const (
	KindConsentSigned       Kind = "CONSENT_SIGNED"
	KindCreditPullRequested Kind = "CREDIT_PULL_REQUESTED"
	KindCreditPullSucceeded Kind = "CREDIT_PULL_SUCCEEDED"
	KindCreditPullFailed    Kind = "CREDIT_PULL_FAILED"
	KindOffersGenerated     Kind = "OFFERS_GENERATED"
	KindOfferViewed         Kind = "OFFER_VIEWED"
	// KindCreditPullResponseViewed marks a decryption of a stored bureau response.
	KindCreditPullResponseViewed Kind = "CREDIT_PULL_RESPONSE_VIEWED"
)

// Actor is the party an event is attributed to.
type Actor string

const (
	ActorTenant   Actor = "tenant"
	ActorLandlord Actor = "landlord"
	ActorSystem   Actor = "system"
)

// Metadata keys shared by emitters and the trail filter.
const (
	MetaApplicantID        = "applicantId"
	MetaListingID          = "listingId"
	MetaConsentID          = "consentId"
	MetaCreditPullID       = "creditPullId"
	MetaOfferID            = "offerId"
	MetaRiskBand           = "riskBand"
	MetaSignedAt           = "signedAt"
	MetaError              = "error"
	MetaPermissiblePurpose = "permissiblePurpose"
)

// PermissiblePurposeTenantScreening is the only purpose this system pulls for.
const PermissiblePurposeTenantScreening = "tenant_screening"

// Event is one immutable audit fact.
type Event struct {
	ID        string         `json:"id"`
	Seq       int64          `json:"seq"`
	Kind      Kind           `json:"type"`
	Actor     Actor          `json:"actor"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Filter selects events whose metadata references the given entities. Empty
// fields are ignored.
type Filter struct {
	OfferID     string
	ListingID   string
	ApplicantID string
}

func (f Filter) pairs() map[string]string {
	out := map[string]string{}
	if f.OfferID != "" {
		out[MetaOfferID] = f.OfferID
	}
	if f.ListingID != "" {
		out[MetaListingID] = f.ListingID
	}
	if f.ApplicantID != "" {
		out[MetaApplicantID] = f.ApplicantID
	}
	return out
}
