package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/repairdepot/storefront/pkg/enums"
)

var tierPercents = map[enums.WholesaleTier]int{
	enums.WholesaleTierBronze: 5,
	enums.WholesaleTierSilver: 10,
	enums.WholesaleTierGold:   15,
}

// WholesaleDiscountPercent returns the tier's discount, or 0 for unknown tiers.
func WholesaleDiscountPercent(tier enums.WholesaleTier) int {
	return tierPercents[tier]
}

// DiscountedUnitCents applies percent to a base price, rounding half up to the cent.
func DiscountedUnitCents(baseCents int64, percent int) int64 {
	if percent <= 0 {
		return baseCents
	}
	if percent >= 100 {
		return 0
	}
	unit := decimal.NewFromInt(baseCents).
		Mul(decimal.NewFromInt(int64(100 - percent))).
		Div(hundred)
	return unit.Round(0).IntPart()
}
