package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

func TestFetchPartsEncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "KMHDN45D82U348713", q.Get("vin"))
		assert.Equal(t, "Toyota", q.Get("make"))
		assert.Equal(t, "2019", q.Get("year"))
		assert.Equal(t, "oils", q.Get("category"))
		assert.False(t, q.Has("model"))

		_ = json.NewEncoder(w).Encode(map[string]any{"items": []types.Part{{SKU: "OIL-5W30"}}})
	}))
	t.Cleanup(srv.Close)

	parts, err := NewClient(srv.URL).FetchParts(context.Background(), PartParams{
		VIN:      "KMHDN45D82U348713",
		Make:     "Toyota",
		Model:    "   ",
		Year:     2019,
		Category: "oils",
	})

	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "OIL-5W30", parts[0].SKU)
}

func TestLoginReturnsTokenWithoutStoringIt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(AuthResult{
			Token: "minted",
			User:  Account{Email: "user@bazarpo.kz", Role: "user"},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)
	result, err := client.Login(context.Background(), Credentials{Email: "user@bazarpo.kz", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "minted", result.Token)

	_, err = client.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	client.SetToken(result.Token)
}

func TestErrorBodyDecodesCodeAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(types.APIError{Error: "part not found", Code: "NOT_FOUND"})
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).FetchParts(context.Background(), PartParams{Query: "missing"})

	var apiErr *APIStatusError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "part not found", apiErr.Message)
}
