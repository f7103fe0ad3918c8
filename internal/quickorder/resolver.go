package quickorder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/repairdepot/storefront/pkg/storefront"
)

// ErrSKUNotFound is returned when a resolver cannot map a SKU to a product.
var ErrSKUNotFound = errors.New("sku not found")

// Resolver maps a SKU to the product the cart API needs.
type Resolver interface {
	Resolve(ctx context.Context, sku string) (storefront.Product, error)
}

// Searcher is the product search endpoint.
type Searcher interface {
	SearchProducts(ctx context.Context, params storefront.SearchParams) (*storefront.ProductPage, error)
}

// SKULookup is the by-SKU product endpoint.
type SKULookup interface {
	ProductBySKU(ctx context.Context, sku string) (*storefront.Product, error)
}

// SearchResolver re-queries search with the SKU and takes the exact match.
type SearchResolver struct {
	Search Searcher
	// Limit bounds the result page scanned for the match. Zero uses 20.
	Limit int
}

func (r SearchResolver) Resolve(ctx context.Context, sku string) (storefront.Product, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = 20
	}
	page, err := r.Search.SearchProducts(ctx, storefront.SearchParams{Search: sku, Limit: limit})
	if err != nil {
		return storefront.Product{}, err
	}
	if page != nil {
		for _, p := range page.Products {
			if strings.EqualFold(p.SKU, sku) {
				return p, nil
			}
		}
	}
	return storefront.Product{}, fmt.Errorf("%w: %s", ErrSKUNotFound, sku)
}

// LookupResolver asks the by-SKU endpoint directly.
type LookupResolver struct {
	Lookup SKULookup
}

func (r LookupResolver) Resolve(ctx context.Context, sku string) (storefront.Product, error) {
	p, err := r.Lookup.ProductBySKU(ctx, sku)
	if err != nil {
		if storefront.IsNotFound(err) {
			return storefront.Product{}, fmt.Errorf("%w: %s", ErrSKUNotFound, sku)
		}
		return storefront.Product{}, err
	}
	return *p, nil
}
