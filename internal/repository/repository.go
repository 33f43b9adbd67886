package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/store"
)

// MovieStore is the local movie cache contract shared by every driver.
//
// Query never returns nil on success. Insert appends in order and skips IDs
// that are already present.
type MovieStore interface {
	Query(ctx context.Context, q domain.Query) ([]domain.Movie, error)
	Insert(ctx context.Context, movies []domain.Movie) error
	Count(ctx context.Context) (int64, error)
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies MovieStore
}

// New constructs a Repository backed by the provided Postgres store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies: &MoviesRepository{pool: pool},
	}
}

// NewBolt constructs a Repository backed by an embedded bbolt file.
func NewBolt(st *store.BoltStore) *Repository {
	return &Repository{
		Movies: &BoltMoviesRepository{db: st.DB()},
	}
}

// NewMemory constructs a Repository that keeps everything in process memory.
func NewMemory() *Repository {
	return &Repository{
		Movies: NewMemoryMoviesRepository(),
	}
}
