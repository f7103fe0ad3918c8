package orders

import (
	"time"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

// TimelineStep is one stage of the customer-facing progression.
type TimelineStep struct {
	Status    enums.OrderStatus `json:"status"`
	Label     string            `json:"label"`
	Completed bool              `json:"completed"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
}

// TrackingInfo is the carrier metadata of a shipped order.
type TrackingInfo struct {
	Carrier           *string    `json:"carrier,omitempty"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

// LineItemDTO is one ordered product.
type LineItemDTO struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// TrackingResult is returned by order tracking.
type TrackingResult struct {
	OrderNumber string            `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	PlacedAt    time.Time         `json:"placed_at"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	TotalCents  int64             `json:"total_cents"`
	Timeline    []TimelineStep    `json:"timeline"`
	Tracking    TrackingInfo      `json:"tracking"`
	Items       []LineItemDTO     `json:"items"`
}

var stepLabels = map[enums.OrderStatus]string{
	enums.OrderStatusProcessing: "Order processing",
	enums.OrderStatusShipped:    "Shipped",
	enums.OrderStatusDelivered:  "Delivered",
}

// BuildTimeline marks a stage completed when the order reached it. A
// cancelled order keeps whatever stages it had reached.
func BuildTimeline(order *models.Order) []TimelineStep {
	placed := order.PlacedAt
	stamps := map[enums.OrderStatus]*time.Time{
		enums.OrderStatusProcessing: &placed,
		enums.OrderStatusShipped:    order.ShippedAt,
		enums.OrderStatusDelivered:  order.DeliveredAt,
	}
	reached := reachedIndex(order)

	steps := make([]TimelineStep, 0, len(enums.OrderTimeline))
	for i, status := range enums.OrderTimeline {
		step := TimelineStep{Status: status, Label: stepLabels[status], Completed: i <= reached}
		if step.Completed {
			step.Timestamp = stamps[status]
		}
		steps = append(steps, step)
	}
	return steps
}

func reachedIndex(order *models.Order) int {
	switch order.Status {
	case enums.OrderStatusDelivered:
		return 2
	case enums.OrderStatusShipped:
		return 1
	case enums.OrderStatusCancelled:
		if order.DeliveredAt != nil {
			return 2
		}
		if order.ShippedAt != nil {
			return 1
		}
	}
	return 0
}

// NewTrackingResult maps an order into its tracking view.
func NewTrackingResult(order *models.Order) *TrackingResult {
	items := make([]LineItemDTO, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		items = append(items, LineItemDTO{
			SKU:            li.SKU,
			Name:           li.Name,
			Quantity:       li.Quantity,
			UnitPriceCents: li.UnitPriceCents,
		})
	}
	return &TrackingResult{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		PlacedAt:    order.PlacedAt,
		CancelledAt: order.CancelledAt,
		TotalCents:  order.TotalCents,
		Timeline:    BuildTimeline(order),
		Tracking: TrackingInfo{
			Carrier:           order.Carrier,
			TrackingNumber:    order.TrackingNumber,
			EstimatedDelivery: order.EstimatedDelivery,
		},
		Items: items,
	}
}
