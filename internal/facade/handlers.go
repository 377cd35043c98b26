// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package facade

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"

	"github.com/Chikage0o0/reservation/internal/domainerr"
	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/manager"
	"github.com/Chikage0o0/reservation/internal/streaming"
)

// Facade wires the HTTP+JSON handlers to C3 (manager.Rsvp). It translates
// unary-call domain errors into an RPC status and that status into an HTTP
// status; stream items are translated by internal/streaming. Every other
// layer works in domain terms exclusively (spec §7).
type Facade struct {
	rsvp   manager.Rsvp
	logger logging.Logger
}

// New builds a Facade over the given Rsvp backend (a *manager.ReservationManager
// in production, a *mock.Store in tests — both satisfy manager.Rsvp).
func New(rsvp manager.Rsvp, logger logging.Logger) *Facade {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Facade{rsvp: rsvp, logger: logger}
}

func (f *Facade) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if !f.decode(w, r, &req) {
		return
	}
	if req.Reservation == nil {
		f.writeError(w, domainerr.InvalidRequest("reservation field is required"))
		return
	}
	domainR, err := req.Reservation.toDomain()
	if err != nil {
		f.writeError(w, domainerr.InvalidRequest(err.Error()))
		return
	}

	created, err := f.rsvp.Reserve(r.Context(), domainR)
	if err != nil {
		f.writeError(w, err)
		return
	}
	f.writeJSON(w, http.StatusOK, reserveResponse{Reservation: streaming.ToWire(created)})
}

func (f *Facade) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := f.pathID(w, r)
	if !ok {
		return
	}
	confirmed, err := f.rsvp.ChangeStatus(r.Context(), id)
	if err != nil {
		f.writeError(w, err)
		return
	}
	f.writeJSON(w, http.StatusOK, singleReservationResponse{Reservation: streaming.ToWire(confirmed)})
}

func (f *Facade) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := f.pathID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !f.decode(w, r, &req) {
		return
	}
	updated, err := f.rsvp.UpdateNotes(r.Context(), id, req.Note)
	if err != nil {
		f.writeError(w, err)
		return
	}
	f.writeJSON(w, http.StatusOK, singleReservationResponse{Reservation: streaming.ToWire(updated)})
}

// handleCancel implements the cancel RPC as a delete (spec §9 Open Question
// decision). A successful cancel answers 204 No Content with an empty body;
// the deleted reservation is not returned.
func (f *Facade) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := f.pathID(w, r)
	if !ok {
		return
	}
	if err := f.rsvp.Delete(r.Context(), id); err != nil {
		f.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *Facade) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := f.pathID(w, r)
	if !ok {
		return
	}
	got, err := f.rsvp.Get(r.Context(), id)
	if err != nil {
		f.writeError(w, err)
		return
	}
	f.writeJSON(w, http.StatusOK, singleReservationResponse{Reservation: streaming.ToWire(got)})
}

func (f *Facade) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !f.decode(w, r, &req) {
		return
	}
	if req.Query == nil {
		f.writeError(w, domainerr.InvalidRequest("query field is required"))
		return
	}
	q, err := req.Query.toDomain()
	if err != nil {
		f.writeError(w, domainerr.InvalidRequest(err.Error()))
		return
	}

	items, err := f.rsvp.Query(r.Context(), q)
	if err != nil {
		f.writeError(w, err)
		return
	}
	streaming.WriteSSE(w, r, f.logger, items)
}

func (f *Facade) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !f.decode(w, r, &req) {
		return
	}
	if req.Filter == nil {
		f.writeError(w, domainerr.InvalidRequest("filter field is required"))
		return
	}

	rows, pager, err := f.rsvp.Filter(r.Context(), req.Filter.toDomain())
	if err != nil {
		f.writeError(w, err)
		return
	}
	f.writeJSON(w, http.StatusOK, toFilterResponse(rows, pager))
}

// handleListen streams the change feed. It has no mandatory inner payload
// (spec §6.1's ListenRequest is empty).
func (f *Facade) handleListen(w http.ResponseWriter, r *http.Request) {
	items, ok := f.changeFeed(w, r)
	if !ok {
		return
	}
	streaming.WriteSSE(w, r, f.logger, items)
}

// handleListenWS is the WebSocket-transport counterpart of handleListen,
// offered as an alternate to SSE (DESIGN.md/SPEC_FULL.md §11: gorilla/websocket
// is in the dependency set and listen's mechanism is an implementer's choice
// per spec §9).
func (f *Facade) handleListenWS(w http.ResponseWriter, r *http.Request) {
	items, ok := f.changeFeed(w, r)
	if !ok {
		return
	}
	streaming.WriteWebSocket(w, r, f.logger, items)
}

func (f *Facade) changeFeed(w http.ResponseWriter, r *http.Request) (<-chan manager.QueryItem, bool) {
	items, err := f.rsvp.Listen(r.Context())
	if err != nil {
		f.writeError(w, err)
		return nil, false
	}
	return items, true
}

func (f *Facade) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f.writeError(w, domainerr.InvalidID(raw))
		return 0, false
	}
	return id, true
}

func (f *Facade) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		f.writeError(w, domainerr.InvalidRequest("malformed request body: "+err.Error()))
		return false
	}
	return true
}

func (f *Facade) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		f.logger.Error("failed to encode response", "error", err)
	}
}

func (f *Facade) writeError(w http.ResponseWriter, err error) {
	st := domainerr.ToStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(st.Code()))
	_ = json.NewEncoder(w).Encode(streaming.ErrorWire{Code: st.Code().String(), Message: st.Message()})
}

// httpStatus maps an RPC status code to the HTTP status this JSON facade
// answers with. There is no wire protocol dictating this mapping (spec §1
// Non-goal: transport framing); it follows the conventional gRPC-gateway
// table since that is the nearest idiomatic precedent for an HTTP+JSON
// front end over RPC-shaped semantics.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
