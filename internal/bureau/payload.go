package bureau

import "github.com/forward-rent/prequal/internal/fingerprint"

// Address is the applicant's current address as the bureau expects it.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// Payload is the prequalification request body. IdentityNumber is sent
// digits-only.
type Payload struct {
	FirstName      string  `json:"firstName"`
	MiddleName     string  `json:"middleName,omitempty"`
	LastName       string  `json:"lastName"`
	BirthDate      string  `json:"birthDate"`
	IdentityNumber string  `json:"ssn"`
	Address        Address `json:"address"`
}

func (p Payload) normalized() Payload {
	p.IdentityNumber = fingerprint.Normalize(p.IdentityNumber)
	return p
}
