package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/query"
	"github.com/Clark-Hu/moviegrid/internal/store"
)

// BoltMoviesRepository stores movies in insertion order, keyed by a bucket
// sequence. A second bucket maps movie IDs to that sequence for dedup.
type BoltMoviesRepository struct {
	db *bolt.DB
}

// Query loads every cached movie in insertion order and applies q in memory.
func (r *BoltMoviesRepository) Query(ctx context.Context, q domain.Query) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]domain.Movie, 0)
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(store.BucketMovies)
		if bucket == nil {
			return fmt.Errorf("bucket %s missing", store.BucketMovies)
		}
		return bucket.ForEach(func(_, value []byte) error {
			var movie domain.Movie
			if err := json.Unmarshal(value, &movie); err != nil {
				return fmt.Errorf("decode movie: %w", err)
			}
			items = append(items, movie)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return query.Apply(items, q), nil
}

// Insert appends movies in one transaction, skipping IDs already stored.
func (r *BoltMoviesRepository) Insert(ctx context.Context, movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(store.BucketMovies)
		ids := tx.Bucket(store.BucketMovieIDs)
		if bucket == nil || ids == nil {
			return fmt.Errorf("movie buckets missing")
		}
		for _, m := range movies {
			idKey := itob(uint64(m.ID))
			if ids.Get(idKey) != nil {
				continue
			}
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			payload, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode movie %d: %w", m.ID, err)
			}
			seqKey := itob(seq)
			if err := bucket.Put(seqKey, payload); err != nil {
				return fmt.Errorf("insert movie: %w", err)
			}
			if err := ids.Put(idKey, seqKey); err != nil {
				return fmt.Errorf("insert movie id: %w", err)
			}
		}
		return nil
	})
}

// Count returns the number of cached movies.
func (r *BoltMoviesRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(store.BucketMovies)
		if bucket == nil {
			return fmt.Errorf("bucket %s missing", store.BucketMovies)
		}
		n = int64(bucket.Stats().KeyN)
		return nil
	})
	return n, err
}

// itob encodes v big-endian so byte order matches numeric order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
