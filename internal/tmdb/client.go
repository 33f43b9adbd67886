package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/logging"
)

// ErrUnauthorized is returned when upstream rejects the API key.
var ErrUnauthorized = errors.New("tmdb: unauthorized")

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("tmdb: page must be positive")

// Client defines the contract for fetching one page of movies from upstream.
// Only the page number is sent; sorting and filtering happen locally.
type Client interface {
	Fetch(ctx context.Context, page int) ([]domain.Movie, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *logrus.Logger
}

// NewHTTPClient constructs a new HTTP-backed movie list client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse tmdb url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logging.OrDiscard(logger),
	}, nil
}

// Fetch retrieves a single page of popular movies.
func (c *HTTPClient) Fetch(ctx context.Context, page int) ([]domain.Movie, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + "/movie/popular"
	q := endpoint.Query()
	q.Set("page", strconv.Itoa(page))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("page", page).Debug("tmdb: fetching page")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var payload pageResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode tmdb response: %w", err)
		}
		movies := convertResults(payload.Results)
		c.logger.WithFields(logrus.Fields{
			"page":        page,
			"count":       len(movies),
			"total_pages": payload.TotalPages,
		}).Debug("tmdb: page fetched")
		return movies, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"page":   page,
		}).Warn("tmdb: unexpected status")
		return nil, fmt.Errorf("tmdb: upstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

type pageResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
}

// convertResults drops records without an identifier; everything else is
// carried over as-is.
func convertResults(results []movieResult) []domain.Movie {
	movies := make([]domain.Movie, 0, len(results))
	for _, r := range results {
		if r.ID == 0 {
			continue
		}
		movie := domain.Movie{
			ID:          r.ID,
			Title:       r.Title,
			ReleaseDate: strings.TrimSpace(r.ReleaseDate),
		}
		if r.PosterPath != nil {
			movie.PosterPath = *r.PosterPath
		}
		movies = append(movies, movie)
	}
	return movies
}
