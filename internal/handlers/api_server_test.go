// internal/handlers/api_server_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthReportsRoomCount(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.store.Join("AAAA11")
	require.NoError(t, err)
	_, err = srv.store.Join("BBBB22")
	require.NoError(t, err)

	resp, err := http.Get(srv.http.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Rooms  int    `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Rooms)
}

func TestRoomQRCode(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.http.URL + "/rooms/ABC123/qr")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	bad, err := http.Get(srv.http.URL + "/rooms/not%20a%20code/qr")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestCreateRoom(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.http.URL+"/rooms", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Regexp(t, "^[A-HJ-KM-NP-Z2-9]{6}$", body.Code,
		"codes use the unambiguous alphabet")
	assert.Equal(t, 1, srv.store.Count())

	// The minted code is immediately joinable.
	qr, err := http.Get(srv.http.URL + "/rooms/" + body.Code + "/qr")
	require.NoError(t, err)
	defer qr.Body.Close()
	assert.Equal(t, http.StatusOK, qr.StatusCode)
}
