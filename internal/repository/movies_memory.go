package repository

import (
	"context"
	"sync"

	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/query"
)

// MemoryMoviesRepository is a process-local cache. It is used for tests and
// for running without any persistence.
type MemoryMoviesRepository struct {
	mu     sync.RWMutex
	movies []domain.Movie
	ids    map[int64]struct{}
}

func NewMemoryMoviesRepository() *MemoryMoviesRepository {
	return &MemoryMoviesRepository{ids: make(map[int64]struct{})}
}

func (r *MemoryMoviesRepository) Query(ctx context.Context, q domain.Query) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return query.Apply(r.movies, q), nil
}

func (r *MemoryMoviesRepository) Insert(ctx context.Context, movies []domain.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range movies {
		if _, ok := r.ids[m.ID]; ok {
			continue
		}
		r.ids[m.ID] = struct{}{}
		r.movies = append(r.movies, m)
	}
	return nil
}

func (r *MemoryMoviesRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.movies)), nil
}
