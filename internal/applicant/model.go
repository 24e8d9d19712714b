package applicant

import "time"

// Address is the applicant's current residence, forwarded to the bureau.
type Address struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// Applicant is a prospective tenant. The identity number itself is never
// stored, only its last four digits and a salted fingerprint.
type Applicant struct {
	ID                  string
	FirstName           string
	MiddleName          string
	LastName            string
	BirthDate           string
	IdentityLast4       string
	IdentityFingerprint string
	Address             Address
	CreatedAt           time.Time
}

// RegisterInput is the data supplied when an applicant is created.
type RegisterInput struct {
	FirstName      string `validate:"required"`
	MiddleName     string
	LastName       string `validate:"required"`
	BirthDate      string `validate:"required"`
	IdentityNumber string `validate:"required,min=9"`
	Address        Address
}
