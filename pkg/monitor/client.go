// Package monitor is the client SDK for the vehicle dashboard: service
// history reads, live event streams, and the admin vehicle controls.
package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// ErrNoToken is returned when an admin call is made without a token.
var ErrNoToken = errors.New("monitor: admin token required")

// Client talks to the dashboard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport. Subscriptions
// disable its timeout on their own request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken attaches the bearer token used for admin calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient builds a dashboard client for the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// History fetches the service records of a vehicle, newest first.
func (c *Client) History(ctx context.Context, vin string) ([]types.ServiceRecord, error) {
	vin = normalizeVIN(vin)

	var out types.ItemsEnvelope[types.ServiceRecord]
	if err := c.doJSON(ctx, http.MethodGet, "/api/cars/"+vin+"/history", nil, false, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ListVehicles returns the admin fleet view.
func (c *Client) ListVehicles(ctx context.Context) ([]types.Vehicle, error) {
	var out types.ItemsEnvelope[types.Vehicle]
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/vehicles", nil, true, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SelectedVehicle returns the vehicle currently in dashboard focus.
func (c *Client) SelectedVehicle(ctx context.Context) (*types.Vehicle, error) {
	var out types.Vehicle
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/selected", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetSelectedVehicle moves the dashboard focus to another vehicle.
func (c *Client) SetSelectedVehicle(ctx context.Context, id string) (*types.Vehicle, error) {
	body := map[string]string{"id": id}

	var out types.Vehicle
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/selected", body, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddServiceRecord appends one maintenance entry. It requires an admin
// token; watchers of the VIN see the new record on their stream.
func (c *Client) AddServiceRecord(ctx context.Context, vin, title, description string, mileage int) (*types.ServiceRecord, error) {
	vin = normalizeVIN(vin)
	body := map[string]any{
		"title":       title,
		"description": description,
		"mileage":     mileage,
	}

	var out types.ServiceRecord
	if err := c.doJSON(ctx, http.MethodPost, "/api/cars/"+vin+"/service-records", body, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, authed bool, dest any) error {
	if authed && c.token == "" {
		return ErrNoToken
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("monitor: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("monitor: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("monitor: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

		var apiErr types.APIError
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error != "" {
			return fmt.Errorf("monitor: api error %d (%s): %s", resp.StatusCode, apiErr.Code, apiErr.Error)
		}
		return fmt.Errorf("monitor: api error %d", resp.StatusCode)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("monitor: decode response: %w", err)
	}
	return nil
}

func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}
