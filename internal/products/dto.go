package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/db/models"
)

// ProductDTO is the public product representation.
type ProductDTO struct {
	ID           uuid.UUID  `json:"id"`
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Brand        string     `json:"brand"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	PhoneModelID *uuid.UUID `json:"phone_model_id,omitempty"`
	PriceCents   int64      `json:"price_cents"`
	StockQty     int        `json:"stock_qty"`
	InStock      bool       `json:"in_stock"`
	IsActive     bool       `json:"is_active"`
	ImageURL     *string    `json:"image_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewProductDTO maps a product row.
func NewProductDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Brand:        p.Brand,
		CategoryID:   p.CategoryID,
		PhoneModelID: p.PhoneModelID,
		PriceCents:   p.PriceCents,
		StockQty:     p.StockQty,
		InStock:      p.StockQty > 0,
		IsActive:     p.IsActive,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ListResult is one page of products.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	ID   uuid.UUID `json:"id"`
	SKU  string    `json:"sku"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ListInput carries the browse filters.
type ListInput struct {
	Search          string
	CategorySlug    string
	Limit           int
	Cursor          string
	IncludeInactive bool
}

// CreateInput is the admin create payload.
type CreateInput struct {
	SKU          string     `json:"sku" validate:"required,sku"`
	Name         string     `json:"name" validate:"required,max=200"`
	Slug         string     `json:"slug" validate:"required,max=200"`
	Description  string     `json:"description"`
	Brand        string     `json:"brand" validate:"max=100"`
	CategoryID   *uuid.UUID `json:"category_id"`
	PhoneModelID *uuid.UUID `json:"phone_model_id"`
	PriceCents   int64      `json:"price_cents" validate:"gte=0"`
	StockQty     int        `json:"stock_qty" validate:"gte=0"`
	IsActive     *bool      `json:"is_active"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
}

// UpdateInput is the admin partial update payload.
type UpdateInput struct {
	SKU          *string    `json:"sku" validate:"omitempty,sku"`
	Name         *string    `json:"name" validate:"omitempty,max=200"`
	Slug         *string    `json:"slug" validate:"omitempty,max=200"`
	Description  *string    `json:"description"`
	Brand        *string    `json:"brand" validate:"omitempty,max=100"`
	CategoryID   *uuid.UUID `json:"category_id"`
	PhoneModelID *uuid.UUID `json:"phone_model_id"`
	PriceCents   *int64     `json:"price_cents" validate:"omitempty,gte=0"`
	StockQty     *int       `json:"stock_qty" validate:"omitempty,gte=0"`
	IsActive     *bool      `json:"is_active"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
}
