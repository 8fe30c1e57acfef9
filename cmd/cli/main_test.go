package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/saved/check/p1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]bool{"saved": true})
	}))
	defer srv.Close()

	c := newClient(srv.URL+"/api", filepath.Join(t.TempDir(), "nested", "token"))
	require.NoError(t, c.saveToken("tok-123\n"))
	require.Equal(t, "tok-123", c.loadToken())

	var res struct {
		Saved bool `json:"saved"`
	}
	require.NoError(t, c.do(http.MethodGet, "/saved/check/p1", nil, &res))
	require.True(t, res.Saved)
}

func TestClient_SurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"property already saved"}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, filepath.Join(t.TempDir(), "token"))
	err := c.do(http.MethodPost, "/saved/p1", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "property already saved")
	require.Contains(t, err.Error(), "409")
}
