package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// CheckoutState tracks where a checkout is in its lifecycle.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateSubmitting CheckoutState = "submitting"
	StateConfirmed  CheckoutState = "confirmed"
)

// StockConflictError is a rejected submission: at least one line asked
// for more than is available. Issues lists every short line so the UI
// can render them all at once.
type StockConflictError struct {
	Issues []types.StockIssue
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("storefront: insufficient stock for %d item(s)", len(e.Issues))
}

// ErrSubmissionInFlight is returned when Submit is called while a
// previous submission has not settled.
var ErrSubmissionInFlight = errors.New("storefront: submission already in flight")

// ErrEmptyCart is returned when Submit is called with no cart lines.
var ErrEmptyCart = errors.New("storefront: cart is empty")

// Checkout drives order submission. It never retries on its own; after
// any failure the state returns to idle with the cart intact and the
// shopper decides what to do next.
type Checkout struct {
	client *Client

	mu    sync.Mutex
	state CheckoutState
	order *types.Order
}

// NewCheckout builds a checkout bound to the given client.
func NewCheckout(client *Client) *Checkout {
	return &Checkout{client: client, state: StateIdle}
}

// State reports the current lifecycle position.
func (co *Checkout) State() CheckoutState {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.state
}

// ConfirmedOrder returns the order of the last successful submission,
// or nil outside the confirmed state.
func (co *Checkout) ConfirmedOrder() *types.Order {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.order
}

// Reset returns a confirmed checkout to idle so a new order can start.
func (co *Checkout) Reset() {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.state != StateSubmitting {
		co.state = StateIdle
		co.order = nil
	}
}

// Submit places the cart as one order. On success the cart is cleared
// and the checkout stays confirmed until Reset. On any failure the
// cart is retained and the state returns to idle; a *StockConflictError
// carries every short line, any other error is opaque.
func (co *Checkout) Submit(ctx context.Context, cart *Cart, shippingAddress, contactInfo string) (*types.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	contactInfo = strings.TrimSpace(contactInfo)
	if shippingAddress == "" || contactInfo == "" {
		return nil, errors.New("storefront: shipping address and contact info are required")
	}

	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	co.mu.Lock()
	if co.state == StateSubmitting {
		co.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	co.state = StateSubmitting
	co.order = nil
	co.mu.Unlock()

	req := types.CreateOrderRequest{
		Items:           make([]types.OrderItemInput, 0, len(items)),
		ShippingAddress: shippingAddress,
		ContactInfo:     contactInfo,
	}
	for _, item := range items {
		req.Items = append(req.Items, types.OrderItemInput{
			SKU: item.SKU,
			Qty: item.Quantity,
		})
	}

	var order types.Order
	err := co.client.doJSON(ctx, http.MethodPost, "/api/orders", req, true, &order)

	co.mu.Lock()
	defer co.mu.Unlock()
	if err != nil {
		co.state = StateIdle
		return nil, err
	}

	cart.Clear()
	co.state = StateConfirmed
	co.order = &order
	return &order, nil
}
