package offers

import (
	"math"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/listing"
	"github.com/forward-rent/prequal/internal/risk"
)

// Bundle names.
const (
	NameBalanced      = "Balanced"
	NameLowerMoveIn   = "Lower Move-in"
	NameLowerMonthly  = "Lower Monthly"
	NameShortTermFlex = "Short Term Flex"
	NameHigherDeposit = "Higher deposit option"
)

const (
	maxMidTermMonths   = 12
	maxShortTermMonths = 6
)

type multipliers struct {
	deposit, rent, discount float64
}

var bandMultipliers = map[risk.Band]multipliers{
	risk.BandA: {deposit: 0.85, rent: 1, discount: 1.1},
	risk.BandB: {deposit: 1, rent: 1, discount: 1},
	risk.BandC: {deposit: 1.05, rent: 1, discount: 0.9},
	risk.BandD: {deposit: 1.2, rent: 1.02, discount: 0.7},
}

// Synthesize builds the bundles for policy at band and returns them with the
// id of the recommended one. Deposits are clamped into the policy range;
// rent and discount are only rounded.
func Synthesize(p listing.Policy, band risk.Band) ([]Bundle, string) {
	m, ok := bandMultipliers[band]
	if !ok {
		m = bandMultipliers[risk.BandB]
	}

	deposit := func(v float64) float64 {
		return math.Round(math.Min(p.MaxDeposit, math.Max(p.MinDeposit, v*m.deposit)))
	}
	rent := func(v float64) float64 { return math.Round(v * m.rent) }
	discount := func(v float64) float64 { return math.Round(v * m.discount) }

	midDeposit := math.Round((p.MinDeposit + p.MaxDeposit) / 2)
	midTerm := int(math.Round(float64(p.MinTermMonths+p.MaxTermMonths) / 2))
	midTerm = min(maxMidTermMonths, max(p.MinTermMonths, midTerm))

	bundles := []Bundle{
		{
			Name:            NameBalanced,
			Rent:            rent(p.BaseRent),
			Deposit:         deposit(midDeposit),
			TermMonths:      midTerm,
			AutopayDiscount: discount(p.AutopayDiscountMax),
			Notes:           "Mid deposit, standard term, autopay discount",
		},
		{
			Name:            NameLowerMoveIn,
			Rent:            rent(p.BaseRent * 1.03),
			Deposit:         deposit(p.MinDeposit),
			TermMonths:      midTerm,
			AutopayDiscount: discount(p.AutopayDiscountMax * 0.8),
			Notes:           "Lower deposit, slightly higher rent",
		},
		{
			Name:            NameLowerMonthly,
			Rent:            rent(p.BaseRent * 0.97),
			Deposit:         deposit(p.MaxDeposit * 0.9),
			TermMonths:      midTerm,
			AutopayDiscount: discount(p.AutopayDiscountMax),
			Notes:           "Higher deposit, lower monthly rent",
		},
		{
			Name:            NameShortTermFlex,
			Rent:            rent(p.BaseRent * 1.08),
			Deposit:         deposit(midDeposit),
			TermMonths:      min(maxShortTermMonths, p.MaxTermMonths),
			AutopayDiscount: discount(p.AutopayDiscountMax * 0.5),
			MoveInFeeWaived: band == risk.BandA,
			Notes:           "3–6 month term, flexibility premium",
		},
	}
	recommended := 0

	if band == risk.BandD {
		bundles = append(bundles, Bundle{
			Name:            NameHigherDeposit,
			Rent:            rent(p.BaseRent),
			Deposit:         deposit(p.MaxDeposit),
			TermMonths:      midTerm,
			AutopayDiscount: discount(p.AutopayDiscountMax * 0.5),
			Notes:           "Maximum deposit; recommended for higher risk",
		})
		recommended = len(bundles) - 1
	}

	for i := range bundles {
		bundles[i].ID = uuid.NewString()
	}
	return bundles, bundles[recommended].ID
}
