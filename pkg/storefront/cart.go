package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// GetCart fetches the caller's cart.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, nil, &cart, false); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product. Quantities merge server side.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*Cart, error) {
	body := map[string]any{"product_id": strings.TrimSpace(productID), "quantity": quantity}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/items", nil, body, &cart, false); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem sets the absolute quantity of a line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*Cart, error) {
	var cart Cart
	path := "/api/cart/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodPatch, path, nil, map[string]int{"quantity": quantity}, &cart, false); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveFromCart deletes a line.
func (c *Client) RemoveFromCart(ctx context.Context, itemID string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(itemID), nil, nil, &cart, false); err != nil {
		return nil, err
	}
	return &cart, nil
}
