package daemon

import (
	"encoding/json"
	"net/http"

	"corkboard/internal/logging"
	"corkboard/internal/types"
)

// WatchNotes streams the full notes snapshot over SSE: one event with the
// current state on connect, then one per mutation. Watchers never receive
// deltas, so a dropped event cannot desynchronize them.
func (a *API) WatchNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	service := a.newNoteService()
	initial, ch, cancel, err := service.Subscribe(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	streamSSE(w, r, a.Logger, "notes_watch", initial, ch, func(s types.Snapshot) any {
		return map[string]any{"notes": s}
	})
}

// WatchMessages streams the recent chat window the same way.
func (a *API) WatchMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	service := a.newMessageService()
	initial, ch, cancel, err := service.Subscribe(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	streamSSE(w, r, a.Logger, "messages_watch", initial, ch, func(m []*types.Message) any {
		return map[string]any{"messages": m}
	})
}

func streamSSE[T any](w http.ResponseWriter, r *http.Request, logger logging.Logger, name string, initial T, ch <-chan T, wrap func(T) any) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	reqID := logging.NewRequestID()
	if logger != nil && logger.Enabled(logging.Debug) {
		logger.Debug(name+"_open", logging.F("req_id", reqID))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	writeEvent := func(value T) {
		data, err := json.Marshal(wrap(value))
		if err != nil {
			return
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(data)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
	writeEvent(initial)

	ctx := r.Context()
	var count int
	defer func() {
		if logger != nil && logger.Enabled(logging.Debug) {
			logger.Debug(name+"_close",
				logging.F("req_id", reqID),
				logging.F("count", count),
			)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case value, ok := <-ch:
			if !ok {
				return
			}
			count++
			writeEvent(value)
		}
	}
}
