package trip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BackendError is a non-2xx answer from the trips backend, carrying the
// detail message when the backend supplied one.
type BackendError struct {
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("trips backend answered status %d", e.StatusCode)
	}
	return fmt.Sprintf("trips backend answered status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the remote trips backend over its JSON HTTP contract.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Create persists one trip. The backend requires the user email as a query
// parameter next to the payload.
func (c *Client) Create(ctx context.Context, email string, p Payload) (Trip, error) {
	u := fmt.Sprintf("%s/trips/?user_email=%s", c.base, url.QueryEscape(email))

	var t Trip
	if err := c.do(ctx, http.MethodPost, u, p, &t); err != nil {
		return Trip{}, fmt.Errorf("creating trip for user[%s]: %w", p.UserID, err)
	}
	return t, nil
}

func (c *Client) Fetch(ctx context.Context, tripID string) (Trip, error) {
	u := fmt.Sprintf("%s/trips/%s", c.base, url.PathEscape(tripID))

	var t Trip
	if err := c.do(ctx, http.MethodGet, u, nil, &t); err != nil {
		return Trip{}, fmt.Errorf("fetching trip[%s]: %w", tripID, err)
	}
	return t, nil
}

func (c *Client) Update(ctx context.Context, tripID string, up TripUp) (Trip, error) {
	u := fmt.Sprintf("%s/trips/%s", c.base, url.PathEscape(tripID))

	var t Trip
	if err := c.do(ctx, http.MethodPut, u, up, &t); err != nil {
		return Trip{}, fmt.Errorf("updating trip[%s]: %w", tripID, err)
	}
	return t, nil
}

func (c *Client) FetchByUser(ctx context.Context, userID string) ([]Trip, error) {
	u := fmt.Sprintf("%s/trips/user/%s", c.base, url.PathEscape(userID))

	var ts []Trip
	if err := c.do(ctx, http.MethodGet, u, nil, &ts); err != nil {
		return nil, fmt.Errorf("fetching trips of user[%s]: %w", userID, err)
	}
	return ts, nil
}

// PaymentIntent asks the backend for a card-payment client secret bound to
// a trip.
func (c *Client) PaymentIntent(ctx context.Context, tripID string) (string, error) {
	u := fmt.Sprintf("%s/payments/payment-intent?trip_id=%s", c.base, url.QueryEscape(tripID))

	var out struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := c.do(ctx, http.MethodPost, u, nil, &out); err != nil {
		return "", fmt.Errorf("creating payment intent for trip[%s]: %w", tripID, err)
	}
	return out.ClientSecret, nil
}

// Confirm finalizes a trip after its payment succeeded.
func (c *Client) Confirm(ctx context.Context, tripID string, email string) error {
	u := fmt.Sprintf("%s/trips/confirm-trip?trip_id=%s&user_email=%s",
		c.base, url.QueryEscape(tripID), url.QueryEscape(email))

	if err := c.do(ctx, http.MethodGet, u, nil, nil); err != nil {
		return fmt.Errorf("confirming trip[%s]: %w", tripID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, u string, body interface{}, out interface{}) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	be := &BackendError{StatusCode: resp.StatusCode}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		be.Detail = body.Detail
	}

	return be
}
