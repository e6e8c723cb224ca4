package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

func newAuthedClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, WithTokenSource(func() string { return "test-token" }))
}

func loadedCart(t *testing.T) *Cart {
	t.Helper()
	cart := NewCart()
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 10)))
	require.Nil(t, cart.AddItem(cartPart("p2", "WIPER-60", 2000, 5)))
	return cart
}

func TestSubmitSuccessClearsCartAndConfirms(t *testing.T) {
	var captured types.CreateOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.Order{ID: "ord-1", Status: "pending", TotalKZT: 6500})
	}))
	t.Cleanup(srv.Close)

	cart := loadedCart(t)
	checkout := NewCheckout(newAuthedClient(srv))

	order, err := checkout.Submit(context.Background(), cart, "Алматы, ул. Абая 10", "+7 700 000 00 00")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)

	assert.Equal(t, StateConfirmed, checkout.State())
	assert.Equal(t, 0, cart.Len())
	require.Len(t, captured.Items, 2)
	assert.Equal(t, types.OrderItemInput{SKU: "OIL-5W30", Qty: 1}, captured.Items[0])

	checkout.Reset()
	assert.Equal(t, StateIdle, checkout.State())
	assert.Nil(t, checkout.ConfirmedOrder())
}

func TestSubmitStockConflictRetainsCartAndListsEveryIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(types.APIError{
			Error: "insufficient stock",
			Code:  "INSUFFICIENT_STOCK",
			Issues: []types.StockIssue{
				{SKU: "OIL-5W30", Requested: 3, Available: 1},
				{SKU: "WIPER-60", Requested: 2, Available: 0},
			},
		})
	}))
	t.Cleanup(srv.Close)

	cart := loadedCart(t)
	checkout := NewCheckout(newAuthedClient(srv))

	_, err := checkout.Submit(context.Background(), cart, "Астана", "+7 700 000 00 00")

	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Issues, 2)
	assert.Equal(t, "WIPER-60", conflict.Issues[1].SKU)

	assert.Equal(t, StateIdle, checkout.State())
	assert.Equal(t, 2, cart.Len(), "cart must survive a rejected submission")
}

func TestSubmitOpaqueFailureRetainsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cart := loadedCart(t)
	checkout := NewCheckout(newAuthedClient(srv))

	_, err := checkout.Submit(context.Background(), cart, "Астана", "+7 700 000 00 00")

	var apiErr *APIStatusError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, StateIdle, checkout.State())
	assert.Equal(t, 2, cart.Len())
}

func TestSubmitRequiresShippingAndContact(t *testing.T) {
	checkout := NewCheckout(NewClient("http://unused"))
	cart := loadedCart(t)

	_, err := checkout.Submit(context.Background(), cart, "   ", "+7 700 000 00 00")
	require.Error(t, err)

	_, err = checkout.Submit(context.Background(), cart, "Астана", "")
	require.Error(t, err)

	assert.Equal(t, StateIdle, checkout.State())
}

func TestSubmitEmptyCart(t *testing.T) {
	checkout := NewCheckout(NewClient("http://unused"))

	_, err := checkout.Submit(context.Background(), NewCart(), "Астана", "+7 700 000 00 00")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server without a token")
	}))
	t.Cleanup(srv.Close)

	checkout := NewCheckout(NewClient(srv.URL))

	_, err := checkout.Submit(context.Background(), loadedCart(t), "Астана", "+7 700 000 00 00")
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
	assert.Equal(t, StateIdle, checkout.State())
}
