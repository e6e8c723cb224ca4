package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// ErrNotAuthenticated is returned when an authenticated call is made
// without a bearer token. Callers route this to their login prompt.
var ErrNotAuthenticated = errors.New("storefront: not authenticated")

// TokenSource supplies the persisted bearer token, or "" when the user
// is not logged in.
type TokenSource func() string

// APIStatusError is a non-2xx response that carries no recoverable
// structure. Consumers surface it as a generic notice.
type APIStatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("storefront: api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("storefront: api error %d", e.StatusCode)
}

// Client talks to the storefront REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource attaches the persisted-token hook.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// NewClient builds a client for the given API base URL.
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

// SetToken replaces the token source with a fixed token. Token
// persistence stays the caller's concern; this is a convenience for
// the common login flow.
func (c *Client) SetToken(token string) {
	c.tokens = func() string { return token }
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens()
}

// PartParams is the catalog search surface.
type PartParams struct {
	VIN       string
	IssueCode string
	Query     string
	Make      string
	Model     string
	Year      int
	Category  string
}

// FetchParts queries the catalog.
func (c *Client) FetchParts(ctx context.Context, params PartParams) ([]types.Part, error) {
	values := url.Values{}
	setIfPresent(values, "vin", params.VIN)
	setIfPresent(values, "issue", params.IssueCode)
	setIfPresent(values, "q", params.Query)
	setIfPresent(values, "make", params.Make)
	setIfPresent(values, "model", params.Model)
	setIfPresent(values, "category", params.Category)
	if params.Year > 0 {
		values.Set("year", strconv.Itoa(params.Year))
	}

	path := "/api/parts"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out types.ItemsEnvelope[types.Part]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// FetchMakes lists every make in the fitment catalog.
func (c *Client) FetchMakes(ctx context.Context) ([]string, error) {
	var out types.ItemsEnvelope[string]
	if err := c.doJSON(ctx, http.MethodGet, "/api/cars/makes", nil, false, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// FetchModels lists the models of one make.
func (c *Client) FetchModels(ctx context.Context, make string) ([]string, error) {
	values := url.Values{}
	setIfPresent(values, "make", make)

	var out types.ItemsEnvelope[string]
	if err := c.doJSON(ctx, http.MethodGet, "/api/cars/models?"+values.Encode(), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// FetchYears lists the production years for one make and model.
func (c *Client) FetchYears(ctx context.Context, make, model string) ([]int, error) {
	values := url.Values{}
	setIfPresent(values, "make", make)
	setIfPresent(values, "model", model)

	var out types.ItemsEnvelope[int]
	if err := c.doJSON(ctx, http.MethodGet, "/api/cars/years?"+values.Encode(), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Credentials is the login/register body.
type Credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Account is the authenticated user surface.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// AuthResult carries a minted token plus the account it belongs to.
type AuthResult struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

// Login exchanges credentials for a bearer token. The token is not
// stored; call SetToken (or keep your own TokenSource) to persist it.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var out AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", creds, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var out AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", creds, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists the caller's placed orders.
func (c *Client) Orders(ctx context.Context) ([]types.Order, error) {
	var out types.ItemsEnvelope[types.Order]
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders", nil, true, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, authed bool, dest any) error {
	var token string
	if authed {
		token = c.token()
		if token == "" {
			return ErrNotAuthenticated
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("storefront: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("storefront: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("storefront: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var apiErr types.APIError
	if err := json.Unmarshal(raw, &apiErr); err == nil {
		if len(apiErr.Issues) > 0 {
			return &StockConflictError{Issues: apiErr.Issues}
		}
		return &APIStatusError{
			StatusCode: resp.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Error,
		}
	}
	return &APIStatusError{StatusCode: resp.StatusCode}
}

func setIfPresent(values url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		values.Set(key, v)
	}
}
