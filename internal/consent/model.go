package consent

import "time"

// Text is shown to the tenant before signing.
const Text = "I authorize the landlord and their agents to obtain my credit report and use it for tenant screening and lease qualification. I understand this is a soft inquiry for permissible purpose: tenant screening."

// TextVersion identifies Text in stored consents.
const TextVersion = "tenant-screening-v1"

// PurposeTenantScreening is the permissible purpose recorded on every consent.
const PurposeTenantScreening = "tenant_screening"

// Consent is an immutable signed authorization for one applicant and listing.
type Consent struct {
	ID          string
	ApplicantID string
	ListingID   string
	TextVersion string
	SignedName  string
	SignedAt    time.Time
	PurposeCode string
	IPAddress   string
}

// SignInput is what the tenant submits to sign.
type SignInput struct {
	ApplicantID  string `validate:"required"`
	ListingID    string `validate:"required"`
	SignedName   string `validate:"required"`
	ConsentGiven bool
	IPAddress    string
}
