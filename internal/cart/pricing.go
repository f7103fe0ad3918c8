package cart

import (
	"github.com/repairdepot/storefront/internal/pricing"
	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

// buildSnapshot prices every line at the tier discount. A nil tier means retail.
func buildSnapshot(rows []models.CartItem, tier *enums.WholesaleTier) Snapshot {
	percent := 0
	if tier != nil {
		percent = pricing.WholesaleDiscountPercent(*tier)
	}

	snap := Snapshot{Items: make([]ItemDTO, 0, len(rows))}
	for _, row := range rows {
		base := row.Product.PriceCents
		unit := pricing.DiscountedUnitCents(base, percent)
		qty := int64(row.Quantity)

		snap.Items = append(snap.Items, ItemDTO{
			ID:        row.ID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Product:   productSnapshot(row.Product),
			Pricing: ItemPricing{
				UnitPriceCents:  unit,
				BasePriceCents:  base,
				SubtotalCents:   unit * qty,
				DiscountPercent: percent,
			},
		})
		snap.Summary.SubtotalCents += unit * qty
		snap.Summary.WholesaleSavingsCents += (base - unit) * qty
		snap.Summary.ItemCount += row.Quantity
	}
	if tier != nil {
		snap.Summary.IsWholesale = true
		t := *tier
		snap.Summary.WholesaleTier = &t
	}
	return snap
}
