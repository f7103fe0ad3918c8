package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SearchProducts lists active products matching the params.
func (c *Client) SearchProducts(ctx context.Context, params SearchParams) (*ProductPage, error) {
	query := url.Values{}
	if s := strings.TrimSpace(params.Search); s != "" {
		query.Set("search", s)
	}
	if s := strings.TrimSpace(params.Category); s != "" {
		query.Set("category", s)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}
	var page ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &page, false); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &product, false); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductBySKU resolves an exact SKU.
func (c *Client) ProductBySKU(ctx context.Context, sku string) (*Product, error) {
	var product Product
	path := "/api/products/sku/" + url.PathEscape(strings.TrimSpace(sku))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &product, false); err != nil {
		return nil, err
	}
	return &product, nil
}

// Autocomplete returns search suggestions for a partial term.
func (c *Client) Autocomplete(ctx context.Context, term string) ([]Suggestion, error) {
	var out struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/search/autocomplete", url.Values{"q": {term}}, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// CategoryTree fetches the nested categories.
func (c *Client) CategoryTree(ctx context.Context) ([]CategoryNode, error) {
	var out struct {
		Categories []CategoryNode `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories/tree", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// PhoneModels fetches the brand navigation.
func (c *Client) PhoneModels(ctx context.Context) ([]Brand, error) {
	var out struct {
		Brands []Brand `json:"brands"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/nav/phone-models", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Brands, nil
}

// Stores lists repair locations.
func (c *Client) Stores(ctx context.Context) ([]Store, error) {
	var out struct {
		Stores []Store `json:"stores"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stores", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Stores, nil
}

// ProductReviews lists a product's reviews.
func (c *Client) ProductReviews(ctx context.Context, productID string) (*ReviewList, error) {
	var out ReviewList
	path := "/api/products/" + url.PathEscape(productID) + "/reviews"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}
