package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// sseServer pushes each queued event once a client connects, then
// holds the stream open until the client goes away.
func sseServer(t *testing.T, events []types.RealtimeEvent) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for _, ev := range events {
			payload, err := json.Marshal(ev)
			require.NoError(t, err)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}

		fmt.Fprint(w, ": ping\n\n")
		flusher.Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubscribeDeliversTypedEvents(t *testing.T) {
	srv := sseServer(t, []types.RealtimeEvent{
		{Type: "VEHICLE_STATE_UPDATED", Payload: map[string]any{"status": "connected"}},
		{Type: "SERVICE_RECORD_ADDED", Payload: map[string]any{"title": "oil change"}},
	})

	sub, err := NewClient(srv.URL).Subscribe(context.Background(), "kmhdn45d82u348713")
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.Events()
	assert.Equal(t, "VEHICLE_STATE_UPDATED", first.Type)

	second := <-sub.Events()
	assert.Equal(t, "SERVICE_RECORD_ADDED", second.Type)

	var payload struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(second.Payload, &payload))
	assert.Equal(t, "oil change", payload.Title)
}

func TestCloseEndsStreamAndClosesChannel(t *testing.T) {
	srv := sseServer(t, []types.RealtimeEvent{
		{Type: "VEHICLE_STATE_UPDATED"},
	})

	sub, err := NewClient(srv.URL).Subscribe(context.Background(), "KMHDN45D82U348713")
	require.NoError(t, err)

	<-sub.Events()
	sub.Close()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "events channel must close on teardown")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel never closed")
	}

	sub.Close()
}

func TestContextCancelEndsStream(t *testing.T) {
	srv := sseServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := NewClient(srv.URL).Subscribe(ctx, "KMHDN45D82U348713")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel never closed after cancel")
	}
}

func TestSubscribeRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Subscribe(context.Background(), "KMHDN45D82U348713")
	assert.Error(t, err)
}

func TestWatchHistoryRefetchesOnEvent(t *testing.T) {
	var historyCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cars/KMHDN45D82U348713/history", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&historyCalls, 1)
		records := []types.ServiceRecord{{ID: fmt.Sprintf("rec-%d", n), Title: "oil change"}}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": records})
	})
	mux.HandleFunc("/ws/cars/KMHDN45D82U348713", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		payload, _ := json.Marshal(types.RealtimeEvent{Type: "SERVICE_RECORD_ADDED"})
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		<-r.Context().Done()
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	watcher, err := NewClient(srv.URL).WatchHistory(context.Background(), "KMHDN45D82U348713")
	require.NoError(t, err)
	defer watcher.Close()

	// A stale snapshot may be replaced before we read it, so wait for
	// the re-fetched one rather than asserting on the first.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case records, ok := <-watcher.Updates():
			require.True(t, ok, "updates closed before re-fetch")
			require.Len(t, records, 1)
			if records[0].ID == "rec-2" {
				assert.GreaterOrEqual(t, atomic.LoadInt64(&historyCalls), int64(2),
					"stream event must trigger a re-fetch")
				return
			}
		case <-deadline:
			t.Fatal("no snapshot after stream event")
		}
	}
}
