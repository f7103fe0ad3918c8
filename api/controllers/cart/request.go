package cart

import "github.com/google/uuid"

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1"`
}

// Quantity bounds are checked by the cart service so the stock conflict and
// the minimum come back with the same messages on every path.
type updateItemRequest struct {
	Quantity int `json:"quantity"`
}
