package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviegrid/internal/config"
	"github.com/Clark-Hu/moviegrid/internal/logging"
	"github.com/Clark-Hu/moviegrid/internal/store"
)

// Backend is an opened local store together with its lifecycle hooks.
type Backend struct {
	*Repository
	health func(ctx context.Context) error
	close  func()
}

// HealthCheck pings the underlying database. The memory driver is always healthy.
func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.health == nil {
		return nil
	}
	return b.health(ctx)
}

// Close releases the underlying database.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open selects the cache backend named by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Backend, error) {
	logger = logging.OrDiscard(logger)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return &Backend{Repository: New(st), health: st.HealthCheck, close: st.Close}, nil

	case config.DriverBolt:
		st, err := store.OpenBolt(cfg.BoltPath, logger)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Repository: NewBolt(st),
			health:     st.HealthCheck,
			close: func() {
				if err := st.Close(); err != nil {
					logger.WithError(err).Warn("close bolt store")
				}
			},
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; the cache is lost on exit")
		return &Backend{Repository: NewMemory()}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
