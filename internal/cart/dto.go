package cart

import (
	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

// ProductSnapshot is the product view embedded in each cart line.
type ProductSnapshot struct {
	ID       uuid.UUID `json:"id"`
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Brand    string    `json:"brand"`
	StockQty int       `json:"stock_qty"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// ItemPricing is recomputed by the server on every read.
type ItemPricing struct {
	UnitPriceCents  int64 `json:"unit_price_cents"`
	BasePriceCents  int64 `json:"base_price_cents"`
	SubtotalCents   int64 `json:"subtotal_cents"`
	DiscountPercent int   `json:"discount_percent"`
}

// ItemDTO is one cart line as returned to clients.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
	Pricing   ItemPricing     `json:"pricing"`
}

// Summary is derived on read and never mutated by clients.
type Summary struct {
	SubtotalCents         int64                `json:"subtotal_cents"`
	ItemCount             int                  `json:"item_count"`
	WholesaleSavingsCents int64                `json:"wholesale_savings_cents"`
	IsWholesale           bool                 `json:"is_wholesale"`
	WholesaleTier         *enums.WholesaleTier `json:"wholesale_tier,omitempty"`
}

// Snapshot is the full cart returned by every cart endpoint.
type Snapshot struct {
	Items   []ItemDTO `json:"items"`
	Summary Summary   `json:"summary"`
}

// AddItemInput is the add-to-cart payload.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

func productSnapshot(p models.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:       p.ID,
		SKU:      p.SKU,
		Name:     p.Name,
		Slug:     p.Slug,
		Brand:    p.Brand,
		StockQty: p.StockQty,
		ImageURL: p.ImageURL,
	}
}
