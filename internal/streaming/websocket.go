// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package streaming

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Chikage0o0/reservation/internal/domainerr"
	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/manager"
)

// Upgrader is shared by every WebSocket-backed stream endpoint. Origin
// checking is left permissive here — the facade sits behind whatever
// reverse proxy enforces that policy in deployment (spec §1 Non-goals
// excludes transport/TLS from this service's scope).
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the WebSocket counterpart to sseEvent, mirroring the
// teacher's StreamMessage shape.
type wsMessage struct {
	Type        string           `json:"type"`
	Reservation *ReservationWire `json:"reservation,omitempty"`
	Error       *ErrorWire       `json:"error,omitempty"`
}

const pingInterval = 30 * time.Second

// WriteWebSocket upgrades the connection and drains a C3 stream onto it,
// the alternate transport for listen's server-stream (spec §4.4, §9 — the
// change-feed mechanism is an implementation choice; WS is offered
// alongside SSE since gorilla/websocket is already in the dependency set).
func WriteWebSocket(w http.ResponseWriter, r *http.Request, logger logging.Logger, items <-chan manager.QueryItem) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case item, open := <-items:
			if !open {
				_ = conn.WriteJSON(wsMessage{Type: "stream_closed"})
				return
			}
			if item.Err != nil {
				st := domainerr.ToStatus(item.Err)
				_ = conn.WriteJSON(wsMessage{
					Type:  "error",
					Error: &ErrorWire{Code: st.Code().String(), Message: st.Message()},
				})
				logger.Error("stream item error", "error", item.Err)
				continue
			}
			wire := ToWire(item.Reservation)
			if err := conn.WriteJSON(wsMessage{Type: "reservation", Reservation: &wire}); err != nil {
				return
			}
		}
	}
}
