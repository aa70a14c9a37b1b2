// internal/lyrics/client_test.go
package lyrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/Adele/Hello":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"lyrics": "Hello from the other side"}`))
		case "/v1/Nobody/Nothing":
			http.Error(w, `{"error":"No lyrics found"}`, http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	text, err := c.Lyrics(ctx, "Adele", "Hello")
	require.NoError(t, err)
	assert.Contains(t, text, "other side")

	_, err = c.Lyrics(ctx, "Nobody", "Nothing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lyrics(ctx, "Someone", "Something")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound, "server errors are not the same as a clean miss")
}

func TestClientEscapesPathSegments(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"lyrics": "la la"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Lyrics(context.Background(), "AC/DC", "Back In Black")
	require.NoError(t, err)
	assert.Equal(t, "/v1/AC%2FDC/Back%20In%20Black", gotPath)
}
