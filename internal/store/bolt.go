package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/Clark-Hu/moviegrid/internal/logging"
)

// Bucket names used by the embedded store.
var (
	BucketMovies   = []byte("movies")
	BucketMovieIDs = []byte("movie_ids")
)

// BoltStore owns an embedded bbolt file used as the local movie cache.
type BoltStore struct {
	db     *bolt.DB
	path   string
	logger *logrus.Logger
}

// OpenBolt opens (or creates) the database file at path and ensures the
// buckets exist.
func OpenBolt(path string, logger *logrus.Logger) (*BoltStore, error) {
	logger = logging.OrDiscard(logger)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{BucketMovies, BucketMovieIDs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bolt buckets: %w", err)
	}

	logger.WithField("path", path).Info("store: bolt database opened")
	return &BoltStore{db: db, path: path, logger: logger}, nil
}

// DB exposes the bbolt handle for repositories.
func (s *BoltStore) DB() *bolt.DB {
	return s.db
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.logger.Info("store: closing bolt database")
	return s.db.Close()
}

// HealthCheck verifies the database can start a read transaction.
func (s *BoltStore) HealthCheck(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(BucketMovies) == nil {
			return fmt.Errorf("bucket %s missing", BucketMovies)
		}
		return nil
	})
}
