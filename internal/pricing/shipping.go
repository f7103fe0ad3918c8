package pricing

import "github.com/shopspring/decimal"

const zipLength = 5

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingFee       = decimal.RequireFromString("9.99")
)

// ShippingEstimate is a derived, never persisted, shipping quote.
type ShippingEstimate struct {
	Zip  string
	Cost decimal.Decimal
}

// Free reports whether the estimate waives shipping.
func (e ShippingEstimate) Free() bool {
	return e.Cost.IsZero()
}

// EstimateShipping quotes shipping for a zip that is exactly five characters
// long. The zip is not checked for digits. Orders strictly above the
// threshold ship free; everything else pays the flat fee.
func EstimateShipping(zip string, subtotal decimal.Decimal) (ShippingEstimate, bool) {
	if len(zip) != zipLength {
		return ShippingEstimate{}, false
	}
	cost := flatShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		cost = decimal.Zero
	}
	return ShippingEstimate{Zip: zip, Cost: cost}, true
}
