package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/moviegrid/internal/catalog"
	"github.com/Clark-Hu/moviegrid/internal/config"
	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/metrics"
	"github.com/Clark-Hu/moviegrid/internal/repository"
)

// fakeRemote serves fixed pages and counts calls.
type fakeRemote struct {
	mu    sync.Mutex
	pages map[int][]domain.Movie
	err   error
	calls int
}

func (f *fakeRemote) Fetch(_ context.Context, page int) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[page], nil
}

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

var testMovies = []domain.Movie{
	{ID: 1, Title: "Interstellar", ReleaseDate: "2014-11-07", PosterPath: "/inter.jpg"},
	{ID: 2, Title: "Dune", ReleaseDate: "2021-10-22"},
	{ID: 3, Title: "Arrival", ReleaseDate: "2016-11-11"},
}

func buildTestServer(tb testing.TB, remote *fakeRemote, health HealthChecker) (*Server, *metrics.Metrics) {
	tb.Helper()
	cfg := config.Config{
		Port:             "0",
		ReadTimeoutSecs:  15,
		WriteTimeoutSecs: 15,
		IdleTimeoutSecs:  60,
		ImageBaseURL:     "https://image.tmdb.org/t/p/w500",
	}
	repo := repository.NewMemory()
	m := metrics.New()
	svc := catalog.New(repo.Movies, remote, catalog.WithRecorder(m))
	return New(cfg, svc, health, m, nil), m
}

func doRequest(srv *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleListMovies_FetchesOnEmptyCache(t *testing.T) {
	remote := &fakeRemote{pages: map[int][]domain.Movie{1: testMovies}}
	srv, _ := buildTestServer(t, remote, nil)

	rec := doRequest(srv, "/movies?sortBy=releaseDate&sortDirection=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body movieListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 3)
	assert.Equal(t, "Dune", body.Data[0].Title)
	assert.Equal(t, "Interstellar", body.Data[2].Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/inter.jpg", body.Data[2].PosterURL)
	assert.Empty(t, body.Data[0].PosterURL)

	// second request is served from cache
	rec = doRequest(srv, "/movies?year=2016")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Arrival", body.Data[0].Title)
	assert.Equal(t, 1, remote.calls)
}

func TestHandleListMovies_InvalidParams(t *testing.T) {
	srv, _ := buildTestServer(t, &fakeRemote{}, nil)
	for _, target := range []string{"/movies?year=abc", "/movies?page=0", "/movies?sortBy=rating"} {
		rec := doRequest(srv, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body errorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "error", body.Status)
		assert.NotEmpty(t, body.Message)
	}
}

func TestHandleListMovies_SyncFailure(t *testing.T) {
	cases := []struct {
		name   string
		remote *fakeRemote
	}{
		{"remote error", &fakeRemote{err: errors.New("upstream down")}},
		{"remote empty", &fakeRemote{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := buildTestServer(t, tc.remote, nil)
			rec := doRequest(srv, "/movies")
			require.Equal(t, http.StatusBadGateway, rec.Code)

			var body errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "error", body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHandleListYears(t *testing.T) {
	remote := &fakeRemote{pages: map[int][]domain.Movie{1: testMovies}}
	srv, _ := buildTestServer(t, remote, nil)

	rec := doRequest(srv, "/movies/years")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty yearsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&empty))
	assert.Empty(t, empty.Years)

	require.Equal(t, http.StatusOK, doRequest(srv, "/movies").Code)

	rec = doRequest(srv, "/movies/years")
	require.Equal(t, http.StatusOK, rec.Code)
	var body yearsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"2021", "2016", "2014"}, body.Years)
}

func TestHandleHealthz(t *testing.T) {
	srv, _ := buildTestServer(t, &fakeRemote{}, fakeHealth{})
	assert.Equal(t, http.StatusOK, doRequest(srv, "/healthz").Code)

	srv, _ = buildTestServer(t, &fakeRemote{}, fakeHealth{err: errors.New("down")})
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(srv, "/healthz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	remote := &fakeRemote{pages: map[int][]domain.Movie{1: testMovies}}
	srv, _ := buildTestServer(t, remote, nil)

	require.Equal(t, http.StatusOK, doRequest(srv, "/movies").Code)
	require.Equal(t, http.StatusOK, doRequest(srv, "/movies").Code)

	rec := doRequest(srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `moviegrid_cache_lookups_total{result="hit"} 1`), body)
	assert.True(t, strings.Contains(body, `moviegrid_cache_lookups_total{result="miss"} 1`), body)
	assert.True(t, strings.Contains(body, `moviegrid_remote_fetches_total{result="ok"} 1`), body)
	assert.Contains(t, body, "moviegrid_http_requests_total")
}

func TestUnknownPathsShareOneMetricSeries(t *testing.T) {
	srv, m := buildTestServer(t, &fakeRemote{}, nil)

	for i := 0; i < 50; i++ {
		rec := doRequest(srv, fmt.Sprintf("/scan/%d", i))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	count, err := testutil.GatherAndCount(m.Registry(), "moviegrid_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	body := doRequest(srv, "/metrics").Body.String()
	assert.Contains(t, body, `moviegrid_http_requests_total{code="404",route="unmatched"} 50`)
	assert.NotContains(t, body, "/scan/")
}
