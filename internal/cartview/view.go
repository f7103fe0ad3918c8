package cartview

import (
	"github.com/shopspring/decimal"

	"github.com/repairdepot/storefront/internal/pricing"
)

// EmptyState is shown instead of the lines and summary when the cart is empty.
type EmptyState struct {
	Title    string
	LinkText string
	LinkHref string
}

// Line is one rendered cart row.
type Line struct {
	ItemID       string
	SKU          string
	Name         string
	ImageURL     string
	Quantity     int
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
	Discount     int
	Busy         bool
	CanDecrement bool
	CanIncrement bool
}

// SummaryPanel is the order summary column.
type SummaryPanel struct {
	ItemCount     int
	IsWholesale   bool
	WholesaleTier string
	CouponCode    string
	Zip           string
	Totals        pricing.Totals
}

// View is a render model detached from the Model.
type View struct {
	Guest       bool
	Loading     bool
	Error       string
	CouponInput string
	CouponError string
	Lines       []Line
	Empty       *EmptyState
	Summary     *SummaryPanel
}

// View snapshots the current state.
func (m *Model) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Guest:       m.guest,
		Loading:     m.loading,
		Error:       m.errMsg,
		CouponInput: m.couponInput,
		CouponError: m.couponErr,
	}
	if len(m.items) == 0 {
		v.Empty = &EmptyState{
			Title:    "Your cart is empty",
			LinkText: "Continue shopping",
			LinkHref: "/shop",
		}
		return v
	}

	v.Lines = make([]Line, 0, len(m.items))
	for _, item := range m.items {
		line := Line{
			ItemID:       item.ID,
			SKU:          item.Product.SKU,
			Name:         item.Product.Name,
			Quantity:     item.Quantity,
			UnitPrice:    pricing.FromCents(item.Pricing.UnitPriceCents),
			LineTotal:    pricing.FromCents(item.Pricing.SubtotalCents),
			Discount:     item.Pricing.DiscountPercent,
			Busy:         m.busy[item.ID],
			CanDecrement: item.Quantity > 1 && !m.busy[item.ID],
			CanIncrement: !m.busy[item.ID] && (item.Product.StockQty == 0 || item.Quantity < item.Product.StockQty),
		}
		if item.Product.ImageURL != nil {
			line.ImageURL = *item.Product.ImageURL
		}
		v.Lines = append(v.Lines, line)
	}

	panel := &SummaryPanel{
		ItemCount:   m.summary.ItemCount,
		IsWholesale: m.summary.IsWholesale,
		Zip:         m.zip,
		Totals:      m.totalsLocked(),
	}
	if m.summary.WholesaleTier != nil {
		panel.WholesaleTier = *m.summary.WholesaleTier
	}
	if m.coupon != nil {
		panel.CouponCode = m.coupon.Code
	}
	v.Summary = panel
	return v
}
