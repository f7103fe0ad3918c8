package cartview

import (
	"github.com/shopspring/decimal"

	"github.com/repairdepot/storefront/internal/pricing"
)

// PricingPolicy owns the coupon table, shipping rule and total arithmetic.
// The API serves the same rules from /api/pricing/quote.
type PricingPolicy interface {
	Coupon(code string) (pricing.Coupon, error)
	Shipping(zip string, subtotal decimal.Decimal) (pricing.ShippingEstimate, bool)
	Compose(in pricing.TotalInput) pricing.Totals
}

// LocalPolicy evaluates the shared pricing package in process.
type LocalPolicy struct{}

func (LocalPolicy) Coupon(code string) (pricing.Coupon, error) {
	return pricing.LookupCoupon(code)
}

func (LocalPolicy) Shipping(zip string, subtotal decimal.Decimal) (pricing.ShippingEstimate, bool) {
	return pricing.EstimateShipping(zip, subtotal)
}

func (LocalPolicy) Compose(in pricing.TotalInput) pricing.Totals {
	return pricing.ComposeTotal(in)
}
