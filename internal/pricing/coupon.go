package pricing

import (
	"errors"
	"strings"
)

// ErrUnknownCoupon is returned for any code outside the promotion table.
var ErrUnknownCoupon = errors.New("invalid coupon code")

// Coupon is a flat percentage promotion.
type Coupon struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
}

var coupons = map[string]int{
	"SAVE10":   10,
	"WELCOME":  15,
	"REPAIR20": 20,
	"NEWUSER":  25,
}

// LookupCoupon matches code case-insensitively against the promotion table.
// Surrounding whitespace is not stripped, so " SAVE10" is unknown.
func LookupCoupon(code string) (Coupon, error) {
	normalized := strings.ToUpper(code)
	pct, ok := coupons[normalized]
	if !ok {
		return Coupon{}, ErrUnknownCoupon
	}
	return Coupon{Code: normalized, Percent: pct}, nil
}
