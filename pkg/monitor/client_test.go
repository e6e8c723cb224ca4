package monitor

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

func TestHistoryNormalizesVIN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cars/KMHDN45D82U348713/history", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []types.ServiceRecord{{ID: "rec-1"}}})
	}))
	t.Cleanup(srv.Close)

	records, err := NewClient(srv.URL).History(context.Background(), "  kmhdn45d82u348713 ")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
}

func TestAdminCallsRequireToken(t *testing.T) {
	client := NewClient("http://unused")

	_, err := client.ListVehicles(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = client.SetSelectedVehicle(context.Background(), "veh-1")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSetSelectedVehicleSendsBearerAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/admin/selected", r.URL.Path)
		require.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "veh-1", body["id"])

		_ = json.NewEncoder(w).Encode(types.Vehicle{ID: "veh-1", Selected: true})
	}))
	t.Cleanup(srv.Close)

	vehicle, err := NewClient(srv.URL, WithToken("admin-token")).SetSelectedVehicle(context.Background(), "veh-1")
	require.NoError(t, err)
	assert.True(t, vehicle.Selected)
}

func TestErrorResponsesSurfaceCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(types.APIError{Error: "no vehicle selected", Code: "NOT_FOUND"})
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, WithToken("admin-token")).SelectedVehicle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND")
}
