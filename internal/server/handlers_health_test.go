package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness(t *testing.T) {
	srv, _, _ := newTestServer(&fakeRepo{})

	rec := doRequest(srv, http.MethodGet, "/health/live", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime")
}

func TestReadiness(t *testing.T) {
	srv, _, _ := newTestServer(&fakeRepo{})

	rec := doRequest(srv, http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestReadiness_DatabaseDown(t *testing.T) {
	srv, _, _ := newTestServer(&fakeRepo{})
	srv.db = &fakeDB{pingErr: errors.New("connection refused")}

	rec := doRequest(srv, http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "postgres", body["failed_check"])
}

func TestVersionEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(&fakeRepo{})

	rec := doRequest(srv, http.MethodGet, "/version", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "go_version")
}
