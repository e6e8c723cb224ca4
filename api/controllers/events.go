package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bazarpo/bazarpo-backend/api/responses"
	"github.com/bazarpo/bazarpo-backend/internal/realtime"
	"github.com/bazarpo/bazarpo-backend/pkg/config"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
	"github.com/go-chi/chi/v5"
)

// VehicleEvents streams dashboard events for one VIN over SSE. The
// stream ends when the client disconnects.
func VehicleEvents(hub *realtime.Hub, cfg config.RealtimeConfig, logg *logger.Logger) http.HandlerFunc {
	keepAlive := cfg.KeepAliveInterval
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "realtime hub unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vin := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "vin")))
		if vin == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "vin required"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			err := pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		events, cancel := hub.Subscribe(vin)
		defer cancel()

		welcome, _ := json.Marshal(types.RealtimeEvent{
			Type:    realtime.EventVehicleStateUpdated,
			Payload: map[string]string{"status": "connected"},
		})
		fmt.Fprintf(w, "data: %s\n\n", welcome)
		flusher.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		done := r.Context().Done()
		for {
			select {
			case <-done:
				return
			case msg := <-events:
				fmt.Fprintf(w, "data: %s\n\n", msg)
				flusher.Flush()
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
