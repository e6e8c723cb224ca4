package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bazarpo/bazarpo-backend/pkg/config"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/metrics"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// Event types pushed on vehicle streams.
const (
	EventServiceRecordAdded  = "SERVICE_RECORD_ADDED"
	EventVehicleStateUpdated = "VEHICLE_STATE_UPDATED"
)

// Hub fans out vehicle events to SSE subscribers keyed by VIN. A slow
// subscriber whose buffer is full loses the event rather than stalling
// the broadcaster.
type Hub struct {
	mu      sync.Mutex
	clients map[string][]chan []byte

	buffer  int
	metrics *metrics.HTTPMetrics
	logg    *logger.Logger
}

// NewHub builds the hub with the configured per-client buffer.
func NewHub(cfg config.RealtimeConfig, m *metrics.HTTPMetrics, logg *logger.Logger) *Hub {
	buffer := cfg.ClientBuffer
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub{
		clients: map[string][]chan []byte{},
		buffer:  buffer,
		metrics: m,
		logg:    logg,
	}
}

// Subscribe registers a listener for a VIN. The returned cancel func
// must be called when the consumer goes away.
func (h *Hub) Subscribe(vin string) (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	h.clients[vin] = append(h.clients[vin], ch)
	total := h.countLocked()
	h.mu.Unlock()

	h.metrics.SetRealtimeClients(total)

	cancel := func() {
		h.mu.Lock()
		conns := h.clients[vin]
		for i := range conns {
			if conns[i] == ch {
				h.clients[vin] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.clients[vin]) == 0 {
			delete(h.clients, vin)
		}
		total := h.countLocked()
		h.mu.Unlock()

		h.metrics.SetRealtimeClients(total)
	}
	return ch, cancel
}

// Broadcast delivers one event to every subscriber of the VIN.
func (h *Hub) Broadcast(ctx context.Context, vin, eventType string, payload any) {
	data, err := json.Marshal(types.RealtimeEvent{Type: eventType, Payload: payload})
	if err != nil {
		if h.logg != nil {
			h.logg.Warn(h.logg.WithVIN(ctx, vin), "realtime event marshal failed")
		}
		return
	}

	h.mu.Lock()
	conns := make([]chan []byte, len(h.clients[vin]))
	copy(conns, h.clients[vin])
	h.mu.Unlock()

	for _, ch := range conns {
		select {
		case ch <- data:
		default:
			// subscriber buffer full, drop
		}
	}
}

// ClientCount reports the number of connected subscribers across all VINs.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
