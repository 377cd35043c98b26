// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package facade

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/mock"
)

func newTestServer() *httptest.Server {
	f := New(mock.New(), logging.NoOpLogger{})
	return httptest.NewServer(f.NewRouter())
}

func TestReserveAndGet(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	body := `{"reservation":{"user_id":"user","resource_id":"resource","start":"2021-01-01T00:00:00Z","end":"2021-01-02T00:00:00Z","note":"n"}}`
	resp, err := http.Post(srv.URL+"/v1/reservations", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reserveResp reserveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reserveResp))
	assert.GreaterOrEqual(t, reserveResp.Reservation.ID, int64(1))
	assert.Equal(t, int32(1), reserveResp.Reservation.Status) // Pending

	getResp, err := http.Get(srv.URL + "/v1/reservations/1")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestReserveMissingPayloadIsInvalidArgument(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/reservations", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConflictIsConflictStatus(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	body := `{"reservation":{"user_id":"user","resource_id":"resource","start":"2021-01-01T00:00:00Z","end":"2021-01-02T00:00:00Z"}}`
	resp1, err := http.Post(srv.URL+"/v1/reservations", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp1.Body.Close()
	require.Equal(t, http.StatusOK, resp1.StatusCode)

	overlapping := `{"reservation":{"user_id":"user","resource_id":"resource","start":"2021-01-01T12:00:00Z","end":"2021-01-02T12:00:00Z"}}`
	resp2, err := http.Post(srv.URL+"/v1/reservations", "application/json", bytes.NewBufferString(overlapping))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestConfirmThenCancel(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	body := `{"reservation":{"user_id":"user","resource_id":"resource","start":"2021-01-01T00:00:00Z","end":"2021-01-02T00:00:00Z"}}`
	resp, err := http.Post(srv.URL+"/v1/reservations", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	var reserveResp reserveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reserveResp))
	resp.Body.Close()

	confirmResp, err := http.Post(srv.URL+"/v1/reservations/1/confirm", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, confirmResp.StatusCode)
	confirmResp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/reservations/1", nil)
	cancelResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer cancelResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, cancelResp.StatusCode)

	getResp, err := http.Get(srv.URL + "/v1/reservations/1")
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestFilterEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	for i := 0; i < 3; i++ {
		body := `{"reservation":{"user_id":"user","resource_id":"r` + string(rune('a'+i)) + `","start":"2021-01-01T00:00:00Z","end":"2021-01-02T00:00:00Z"}}`
		resp, err := http.Post(srv.URL+"/v1/reservations", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Post(srv.URL+"/v1/reservations/filter", "application/json", bytes.NewBufferString(`{"filter":{"page_size":10}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var filterResp filterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filterResp))
	assert.Len(t, filterResp.Reservation, 3)
}
