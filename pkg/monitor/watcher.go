package monitor

import (
	"context"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// HistoryWatcher keeps a live view of one vehicle's service history.
// Any event on the vehicle stream triggers a full re-fetch, so the
// emitted snapshots are always server-authoritative.
type HistoryWatcher struct {
	updates chan []types.ServiceRecord
	sub     *Subscription
}

// Updates emits history snapshots: one on start, then one per stream
// event. The channel closes when the watcher stops.
func (w *HistoryWatcher) Updates() <-chan []types.ServiceRecord {
	return w.updates
}

// Close stops the watcher and its underlying subscription.
func (w *HistoryWatcher) Close() {
	w.sub.Close()
}

// WatchHistory opens a stream for the VIN and re-fetches the history
// whenever anything happens on it. A failed re-fetch skips that
// snapshot; the watcher keeps running.
func (c *Client) WatchHistory(ctx context.Context, vin string) (*HistoryWatcher, error) {
	sub, err := c.Subscribe(ctx, vin)
	if err != nil {
		return nil, err
	}

	w := &HistoryWatcher{
		updates: make(chan []types.ServiceRecord, 1),
		sub:     sub,
	}

	go func() {
		defer close(w.updates)

		if records, err := c.History(ctx, vin); err == nil {
			w.emit(ctx, records)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Events():
				if !ok {
					return
				}
				records, err := c.History(ctx, vin)
				if err != nil {
					continue
				}
				w.emit(ctx, records)
			}
		}
	}()

	return w, nil
}

// emit never blocks: a stale unread snapshot is replaced by the new
// one, so a slow consumer always sees the latest state.
func (w *HistoryWatcher) emit(ctx context.Context, records []types.ServiceRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case w.updates <- records:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}
