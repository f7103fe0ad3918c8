package storefront

import "time"

// Product is the public product view.
type Product struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	PriceCents  int64   `json:"price_cents"`
	StockQty    int     `json:"stock_qty"`
	InStock     bool    `json:"in_stock"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// ProductPage is one page of search results.
type ProductPage struct {
	Products   []Product `json:"products"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// SearchParams filters the product listing.
type SearchParams struct {
	Search   string
	Category string
	Limit    int
	Cursor   string
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CartProduct is the product snapshot carried by a cart line.
type CartProduct struct {
	ID       string  `json:"id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Brand    string  `json:"brand"`
	StockQty int     `json:"stock_qty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// CartPricing is recomputed by the server on every read.
type CartPricing struct {
	UnitPriceCents  int64 `json:"unit_price_cents"`
	BasePriceCents  int64 `json:"base_price_cents"`
	SubtotalCents   int64 `json:"subtotal_cents"`
	DiscountPercent int   `json:"discount_percent"`
}

// CartItem is one cart line.
type CartItem struct {
	ID        string      `json:"id"`
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   CartProduct `json:"product"`
	Pricing   CartPricing `json:"pricing"`
}

// CartSummary is derived by the server.
type CartSummary struct {
	SubtotalCents         int64   `json:"subtotal_cents"`
	ItemCount             int     `json:"item_count"`
	WholesaleSavingsCents int64   `json:"wholesale_savings_cents"`
	IsWholesale           bool    `json:"is_wholesale"`
	WholesaleTier         *string `json:"wholesale_tier,omitempty"`
}

// Cart is the snapshot every cart endpoint returns.
type Cart struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}

// CategoryNode is one node of the category tree.
type CategoryNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Children []CategoryNode `json:"children"`
}

// PhoneModel is one navigable device.
type PhoneModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Brand groups phone models.
type Brand struct {
	Brand  string       `json:"brand"`
	Models []PhoneModel `json:"models"`
}

// StoreAddress is a physical location.
type StoreAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Store is a repair location.
type Store struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Address StoreAddress `json:"address"`
	Phone   string       `json:"phone"`
	Hours   string       `json:"hours"`
}

// TimelineStep is one stage of order progress.
type TimelineStep struct {
	Status    string     `json:"status"`
	Label     string     `json:"label"`
	Completed bool       `json:"completed"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// OrderLine is one ordered product.
type OrderLine struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderTracking is the tracking lookup result.
type OrderTracking struct {
	OrderNumber string         `json:"order_number"`
	Status      string         `json:"status"`
	PlacedAt    time.Time      `json:"placed_at"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	TotalCents  int64          `json:"total_cents"`
	Timeline    []TimelineStep `json:"timeline"`
	Tracking    struct {
		Carrier           *string    `json:"carrier,omitempty"`
		TrackingNumber    *string    `json:"tracking_number,omitempty"`
		EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	} `json:"tracking"`
	Items []OrderLine `json:"items"`
}

// QuoteRequest asks the server to compose an order total.
type QuoteRequest struct {
	SubtotalCents         int64  `json:"subtotal_cents"`
	WholesaleSavingsCents int64  `json:"wholesale_savings_cents,omitempty"`
	CouponCode            string `json:"coupon_code,omitempty"`
	Zip                   string `json:"zip,omitempty"`
}

// Quote is the server-composed order total.
type Quote struct {
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

// RepairRequest is the submitted repair-booking form.
type RepairRequest struct {
	DeviceBrand      string `json:"device_brand"`
	DeviceModel      string `json:"device_model"`
	IssueCategory    string `json:"issue_category"`
	IssueDescription string `json:"issue_description"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ServiceType      string `json:"service_type"`
	StoreID          string `json:"store_id,omitempty"`
	PreferredDate    string `json:"preferred_date"`
}

// RepairTicket is a booked repair.
type RepairTicket struct {
	TicketNumber  string    `json:"ticket_number"`
	Status        string    `json:"status"`
	DeviceBrand   string    `json:"device_brand"`
	DeviceModel   string    `json:"device_model"`
	IssueCategory string    `json:"issue_category"`
	ServiceType   string    `json:"service_type"`
	StoreID       *string   `json:"store_id,omitempty"`
	PreferredDate string    `json:"preferred_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// WarrantyRequest submits a claim against a delivered order.
type WarrantyRequest struct {
	OrderNumber string `json:"order_number"`
	Email       string `json:"email"`
	ProductSKU  string `json:"product_sku"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// WarrantyClaim is the customer view of a claim.
type WarrantyClaim struct {
	ClaimNumber string    `json:"claim_number"`
	OrderNumber string    `json:"order_number"`
	ProductSKU  string    `json:"product_sku"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewRequest posts a product review.
type ReviewRequest struct {
	ProductID  string `json:"product_id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// Review is one published review.
type Review struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewList carries a product's reviews and their aggregate.
type ReviewList struct {
	Reviews []Review `json:"reviews"`
	Average float64  `json:"average"`
	Count   int      `json:"count"`
}
