// Package catalog implements the cache-first movie sync: serve from the local
// store, and on an empty result pull one page from upstream, write it through
// and read back.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/logging"
	"github.com/Clark-Hu/moviegrid/internal/query"
)

var (
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("catalog: page must be positive")
	// ErrLocalStore wraps failures of the local cache.
	ErrLocalStore = errors.New("catalog: local store failed")
	// ErrRemoteFetch wraps failures of the upstream source.
	ErrRemoteFetch = errors.New("catalog: remote fetch failed")
	// ErrEmptyResult is returned when nothing matches even after a fetch.
	ErrEmptyResult = errors.New("catalog: no movies found")
)

// LocalStore is the cache the service reads from and writes through to.
type LocalStore interface {
	Query(ctx context.Context, q domain.Query) ([]domain.Movie, error)
	Insert(ctx context.Context, movies []domain.Movie) error
}

// RemoteSource fetches one page of movies. Sort and filter are never sent.
type RemoteSource interface {
	Fetch(ctx context.Context, page int) ([]domain.Movie, error)
}

// Service coordinates the local store and the remote source.
type Service struct {
	local    LocalStore
	remote   RemoteSource
	recorder Recorder
	logger   *logrus.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithRecorder attaches an observer for cache and fetch events.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger used for sync steps.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = logging.OrDiscard(l)
	}
}

// New builds a Service from its collaborators.
func New(local LocalStore, remote RemoteSource, opts ...Option) *Service {
	s := &Service{
		local:    local,
		remote:   remote,
		recorder: nopRecorder{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetMovies returns the cached movies matching q. When the cache has none, it
// fetches page from the remote source once, stores the result and queries
// again. A cache hit never touches the remote source, whatever page is asked.
func (s *Service) GetMovies(ctx context.Context, page int, q domain.Query) ([]domain.Movie, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	log := s.logger.WithFields(logrus.Fields{
		"page":      page,
		"sort":      q.SortBy.String(),
		"direction": q.Direction.String(),
		"years":     q.Years,
	})

	cached, err := s.local.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrLocalStore, err)
	}
	if len(cached) > 0 {
		s.recorder.CacheHit()
		log.WithField("count", len(cached)).Debug("catalog: cache hit")
		return cached, nil
	}

	s.recorder.CacheMiss()
	log.Debug("catalog: cache miss, fetching")

	fetched, err := s.remote.Fetch(ctx, page)
	s.recorder.FetchResult(err)
	if err != nil {
		log.WithError(err).Warn("catalog: remote fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrRemoteFetch, err)
	}
	if len(fetched) == 0 {
		log.Warn("catalog: remote returned no movies")
		return nil, fmt.Errorf("%w: page %d is empty", ErrEmptyResult, page)
	}

	if err := s.local.Insert(ctx, fetched); err != nil {
		return nil, fmt.Errorf("%w: insert: %v", ErrLocalStore, err)
	}
	s.recorder.Inserted(len(fetched))

	movies, err := s.local.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrLocalStore, err)
	}
	if len(movies) == 0 {
		log.WithField("fetched", len(fetched)).Info("catalog: nothing matches after fetch")
		return nil, fmt.Errorf("%w: nothing matches after fetching page %d", ErrEmptyResult, page)
	}

	log.WithFields(logrus.Fields{
		"fetched": len(fetched),
		"count":   len(movies),
	}).Info("catalog: synced page")
	return movies, nil
}

// Load runs GetMovies in the background. The channel yields Loading, then one
// Success or Error, then closes.
func (s *Service) Load(ctx context.Context, page int, q domain.Query) <-chan domain.Resource {
	out := make(chan domain.Resource, 2)
	go func() {
		defer close(out)
		out <- domain.Loading()
		movies, err := s.GetMovies(ctx, page, q)
		if err != nil {
			out <- domain.Failure(err.Error())
			return
		}
		out <- domain.Success(movies)
	}()
	return out
}

// Years lists the release years present in the cache, in first-seen order.
func (s *Service) Years(ctx context.Context) ([]string, error) {
	movies, err := s.local.Query(ctx, domain.Query{})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrLocalStore, err)
	}
	return query.DistinctYears(movies), nil
}
