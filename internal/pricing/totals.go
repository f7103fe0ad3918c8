package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TotalInput is the state the order total is composed from.
type TotalInput struct {
	Subtotal         decimal.Decimal
	WholesaleSavings decimal.Decimal
	Coupon           *Coupon
	Shipping         *ShippingEstimate
}

// Totals is the displayed order summary. WholesaleSavings is informational:
// it is already reflected in Subtotal.
type Totals struct {
	Subtotal         decimal.Decimal
	WholesaleSavings decimal.Decimal
	CouponPercent    int
	CouponDiscount   decimal.Decimal
	Shipping         decimal.Decimal
	ShippingKnown    bool
	Total            decimal.Decimal
}

// ComposeTotal computes subtotal - subtotal*percent/100 + shipping in cents.
func ComposeTotal(in TotalInput) Totals {
	out := Totals{
		Subtotal:         in.Subtotal.Round(2),
		WholesaleSavings: in.WholesaleSavings.Round(2),
		CouponDiscount:   decimal.Zero,
		Shipping:         decimal.Zero,
	}
	if in.Coupon != nil {
		out.CouponPercent = in.Coupon.Percent
		out.CouponDiscount = in.Subtotal.Mul(decimal.NewFromInt(int64(in.Coupon.Percent))).Div(hundred).Round(2)
	}
	if in.Shipping != nil {
		out.Shipping = in.Shipping.Cost.Round(2)
		out.ShippingKnown = true
	}
	out.Total = out.Subtotal.Sub(out.CouponDiscount).Add(out.Shipping)
	return out
}

// FromCents converts integer cents to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
