// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package streaming

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Chikage0o0/reservation/internal/domainerr"
	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/manager"
)

// sseEvent mirrors the teacher's SSEEvent shape without its id field; Event
// is "reservation" for a row and "error" for a failed stream item.
type sseEvent struct {
	Event string      `json:"event,omitempty"`
	Data  interface{} `json:"data"`
}

// WriteSSE drains items from a C3 stream and renders it as Server-Sent
// Events, stopping when the channel closes or the request context is
// cancelled (whichever happens first — dropping the consumer is how a
// streaming RPC is cancelled, per spec §4.4).
func WriteSSE(w http.ResponseWriter, r *http.Request, logger logging.Logger, items <-chan manager.QueryItem) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case item, open := <-items:
			if !open {
				return
			}
			if item.Err != nil {
				st := domainerr.ToStatus(item.Err)
				writeSSE(w, flusher, sseEvent{
					Event: "error",
					Data:  ErrorWire{Code: st.Code().String(), Message: st.Message()},
				})
				logger.Error("stream item error", "error", item.Err)
				continue
			}
			writeSSE(w, flusher, sseEvent{
				Event: "reservation",
				Data:  ToWire(item.Reservation),
			})
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event sseEvent) {
	if event.Event != "" {
		fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	data, err := json.Marshal(event.Data)
	if err != nil {
		fmt.Fprintf(w, "data: {\"error\":\"failed to marshal event\"}\n\n")
		flusher.Flush()
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
