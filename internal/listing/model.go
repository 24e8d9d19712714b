package listing

import "time"

// Policy is the landlord's rent menu. Offers are synthesized against it.
type Policy struct {
	BaseRent           float64 `json:"baseRent" validate:"gt=0"`
	MinDeposit         float64 `json:"minDeposit" validate:"gte=0"`
	MaxDeposit         float64 `json:"maxDeposit" validate:"gte=0,gtefield=MinDeposit"`
	MinTermMonths      int     `json:"minTermMonths" validate:"gte=1"`
	MaxTermMonths      int     `json:"maxTermMonths" validate:"gte=1,gtefield=MinTermMonths"`
	AutopayDiscountMax float64 `json:"autopayDiscountMax" validate:"gte=0"`
}

// Listing is a rentable unit with its landlord and policy.
type Listing struct {
	ID            string
	LandlordName  string
	LandlordEmail string
	Address       string
	Policy        Policy
	CreatedAt     time.Time
}
