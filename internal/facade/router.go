// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package facade

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every operation in the RPC surface (spec §4.5, §6.1)
// on a fresh mux.Router, in the teacher's StrictSlash(false)/versioned-prefix
// style.
func (f *Facade) NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(false)
	api := router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/reservations", f.handleReserve).Methods(http.MethodPost)
	api.HandleFunc("/reservations/query", f.handleQuery).Methods(http.MethodPost)
	api.HandleFunc("/reservations/filter", f.handleFilter).Methods(http.MethodPost)
	api.HandleFunc("/reservations/listen", f.handleListen).Methods(http.MethodGet)
	api.HandleFunc("/reservations/listen/ws", f.handleListenWS).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", f.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", f.handleUpdate).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{id}", f.handleCancel).Methods(http.MethodDelete)
	api.HandleFunc("/reservations/{id}/confirm", f.handleConfirm).Methods(http.MethodPost)

	return router
}
