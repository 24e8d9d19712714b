package creditpull

import (
	"time"

	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/risk"
)

// Status is the outcome of the bureau round trip.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// RedactedRequest is what is kept of the payload sent to the bureau.
type RedactedRequest struct {
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	BirthDate     string         `json:"birthDate"`
	IdentityLast4 string         `json:"ssnLast4"`
	Address       bureau.Address `json:"address"`
}

// Record is an immutable credit pull. Exactly one of EncryptedResponse and
// Summary is set.
type Record struct {
	ID                string
	ApplicantID       string
	ListingID         string
	ConsentID         string
	Bureau            string
	Endpoint          string
	Status            Status
	Request           RedactedRequest
	EncryptedResponse string
	Summary           *risk.Summary
	CreatedAt         time.Time
}
