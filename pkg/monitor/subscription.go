package monitor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// Event is one message received on a vehicle stream. Payload is left
// raw so consumers decode only the event types they care about.
type Event struct {
	Type    string
	Payload json.RawMessage
}

// Subscription is a live event stream for one vehicle. The Events
// channel closes when the stream ends for any reason; Close tears the
// stream down and waits for the reader to finish.
type Subscription struct {
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// Events returns the stream channel.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close ends the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Subscribe opens the event stream for a VIN. The stream stays open
// until Close is called, ctx is cancelled, or the server drops the
// connection; in every case the Events channel is closed.
func (c *Client) Subscribe(ctx context.Context, vin string) (*Subscription, error) {
	vin = normalizeVIN(vin)
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ws/cars/"+vin, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("monitor: build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// Streams outlive the client timeout, so dial without one.
	transport := http.DefaultTransport
	if c.httpClient.Transport != nil {
		transport = c.httpClient.Transport
	}
	streamClient := &http.Client{Transport: transport}

	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("monitor: open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("monitor: stream rejected with status %d", resp.StatusCode)
	}

	sub := &Subscription{
		events: make(chan Event, 8),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(sub.events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 4096), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				// Blank separators and ": ping" keepalives.
				continue
			}

			var wire types.RealtimeEvent
			if err := json.Unmarshal([]byte(data), &wire); err != nil {
				continue
			}
			payload, _ := json.Marshal(wire.Payload)

			select {
			case sub.events <- Event{Type: wire.Type, Payload: payload}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}
