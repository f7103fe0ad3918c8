package controllers

import (
	"errors"
	"net/http"

	"github.com/repairdepot/storefront/api/responses"
	"github.com/repairdepot/storefront/api/validators"
	"github.com/repairdepot/storefront/internal/pricing"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/logger"
)

type quoteRequest struct {
	SubtotalCents         int64  `json:"subtotal_cents" validate:"gte=0"`
	WholesaleSavingsCents int64  `json:"wholesale_savings_cents" validate:"gte=0"`
	CouponCode            string `json:"coupon_code"`
	Zip                   string `json:"zip"`
}

// QuoteResponse is the order total breakdown in cents.
type QuoteResponse struct {
	SubtotalCents         int64  `json:"subtotal_cents"`
	WholesaleSavingsCents int64  `json:"wholesale_savings_cents"`
	CouponCode            string `json:"coupon_code,omitempty"`
	CouponPercent         int    `json:"coupon_percent"`
	CouponDiscountCents   int64  `json:"coupon_discount_cents"`
	ShippingCents         int64  `json:"shipping_cents"`
	ShippingKnown         bool   `json:"shipping_known"`
	FreeShipping          bool   `json:"free_shipping"`
	TotalCents            int64  `json:"total_cents"`
}

// PricingQuote composes the displayed total so clients need not trust their
// own arithmetic.
func PricingQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subtotal := pricing.FromCents(payload.SubtotalCents)
		input := pricing.TotalInput{
			Subtotal:         subtotal,
			WholesaleSavings: pricing.FromCents(payload.WholesaleSavingsCents),
		}
		var code string
		if payload.CouponCode != "" {
			coupon, err := pricing.LookupCoupon(payload.CouponCode)
			if err != nil {
				if errors.Is(err, pricing.ErrUnknownCoupon) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Invalid coupon code").
						WithDetails(map[string]string{"coupon_code": "is not a valid coupon"}))
					return
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Coupon = &coupon
			code = coupon.Code
		}
		var free bool
		if estimate, ok := pricing.EstimateShipping(payload.Zip, subtotal); ok {
			input.Shipping = &estimate
			free = estimate.Free()
		}

		totals := pricing.ComposeTotal(input)
		responses.WriteSuccess(w, QuoteResponse{
			SubtotalCents:         pricing.ToCents(totals.Subtotal),
			WholesaleSavingsCents: pricing.ToCents(totals.WholesaleSavings),
			CouponCode:            code,
			CouponPercent:         totals.CouponPercent,
			CouponDiscountCents:   pricing.ToCents(totals.CouponDiscount),
			ShippingCents:         pricing.ToCents(totals.Shipping),
			ShippingKnown:         totals.ShippingKnown,
			FreeShipping:          free,
			TotalCents:            pricing.ToCents(totals.Total),
		})
	}
}
