// Package billing is a minimal client for the payment provider's REST API.
// Only the two endpoints the service uses are implemented: hosted checkout
// sessions and billing portal sessions.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orchids/fitcourse/internal/service"
)

const defaultBaseURL = "https://api.stripe.com"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL points the client at a different API host, used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params service.CheckoutParams) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("client_reference_id", params.UserID)
	form.Set("metadata[user_id]", params.UserID)
	// Subscription lifecycle events deliver the subscription object, not the
	// session, so the subscription needs its own copy of the user id.
	form.Set("subscription_data[metadata][user_id]", params.UserID)
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	} else if params.Email != "" {
		form.Set("customer_email", params.Email)
	}

	session, err := c.post(ctx, "/v1/checkout/sessions", form)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("return_url", returnURL)

	session, err := c.post(ctx, "/v1/billing_portal/sessions", form)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*sessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("provider error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("provider error (%d)", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("provider response missing session url")
	}

	return &session, nil
}
