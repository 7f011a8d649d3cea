package targetapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdforge/stdforge/internal/apikey"
	"github.com/stdforge/stdforge/internal/assemble"
)

// testClient points the client at an httptest server; production keys
// always address https hosts, so the base URL is overridden directly.
func testClient(srv *httptest.Server) *Client {
	c := New(apikey.TargetKey{Host: "unused.example.com", Token: "secret"})
	c.httpc.SetBaseURL(srv.URL)
	return c
}

func TestImportStandard(t *testing.T) {
	t.Parallel()

	var got assemble.Standard
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/standards", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	standard := assemble.Standard{Name: "Legacy Java - Naming", Description: "1. Alpha"}
	require.NoError(t, testClient(srv).ImportStandard(context.Background(), standard))
	assert.Equal(t, standard.Name, got.Name)
}

func TestImportStandard_RejectedStandard(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	err := testClient(srv).ImportStandard(context.Background(), assemble.Standard{Name: "Bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
