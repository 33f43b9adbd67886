package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL+"/3", "secret", 2*time.Second, nil)
	require.NoError(t, err)
	return client
}

func TestFetchDecodesPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/popular", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 2,
			"results": [
				{"id": 550, "title": "Fight Club", "release_date": "1999-10-15", "poster_path": "/fc.jpg"},
				{"id": 0, "title": "Broken"},
				{"id": 680, "title": "Pulp Fiction", "release_date": "1994-09-10", "poster_path": null}
			],
			"total_pages": 10,
			"total_results": 200
		}`))
	})

	movies, err := client.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, int64(550), movies[0].ID)
	assert.Equal(t, "/fc.jpg", movies[0].PosterPath)
	assert.Equal(t, "1994-09-10", movies[1].ReleaseDate)
	assert.Empty(t, movies[1].PosterPath)
}

func TestFetchEmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page": 99, "results": [], "total_pages": 10}`))
	})

	movies, err := client.Fetch(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "500")
				assert.Contains(t, err.Error(), "boom")
			},
		},
		{
			name:   "malformed payload",
			status: http.StatusOK,
			body:   "{not json",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "decode tmdb response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Fetch(context.Background(), 1)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetchRejectsInvalidPage(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, err := client.Fetch(context.Background(), 0)
	assert.True(t, errors.Is(err, ErrInvalidPage))
	assert.False(t, called, "no request should be sent for page 0")
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient("not-a-url", "k", time.Second, nil)
	assert.Error(t, err)
}
