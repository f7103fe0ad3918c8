package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// TrackOrder looks an order up by number and email.
func (c *Client) TrackOrder(ctx context.Context, orderNumber, email string) (*OrderTracking, error) {
	body := map[string]string{
		"order_number": strings.TrimSpace(orderNumber),
		"email":        strings.TrimSpace(email),
	}
	var out OrderTracking
	if err := c.do(ctx, http.MethodPost, "/api/orders/track", nil, body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quote asks the server for the composed order total.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	var out Quote
	if err := c.do(ctx, http.MethodPost, "/api/pricing/quote", nil, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookRepair submits the repair wizard.
func (c *Client) BookRepair(ctx context.Context, req RepairRequest) (*RepairTicket, error) {
	var out RepairTicket
	if err := c.do(ctx, http.MethodPost, "/api/repairs", nil, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// RepairStatus tracks a ticket. The email must match the booking.
func (c *Client) RepairStatus(ctx context.Context, ticketNumber, email string) (*RepairTicket, error) {
	var out RepairTicket
	path := "/api/repairs/" + url.PathEscape(ticketNumber)
	if err := c.do(ctx, http.MethodGet, path, url.Values{"email": {email}}, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitWarrantyClaim files a claim.
func (c *Client) SubmitWarrantyClaim(ctx context.Context, req WarrantyRequest) (*WarrantyClaim, error) {
	var out WarrantyClaim
	if err := c.do(ctx, http.MethodPost, "/api/warranty-claims", nil, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// WarrantyStatus reports a claim. The email must match the order.
func (c *Client) WarrantyStatus(ctx context.Context, claimNumber, email string) (*WarrantyClaim, error) {
	var out WarrantyClaim
	path := "/api/warranty-claims/" + url.PathEscape(claimNumber)
	if err := c.do(ctx, http.MethodGet, path, url.Values{"email": {email}}, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostReview publishes a review.
func (c *Client) PostReview(ctx context.Context, req ReviewRequest) (*Review, error) {
	var out Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews", nil, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

type messageBody struct {
	Message string `json:"message"`
}

// ForgotPassword requests a reset link. The reply is the same for every
// address.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", nil, map[string]string{"email": email}, &out, true); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResetPassword consumes a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	body := map[string]string{"token": token, "password": password}
	var out messageBody
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", nil, body, &out, true); err != nil {
		return "", err
	}
	return out.Message, nil
}
