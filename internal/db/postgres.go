package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/stallhub/internal/config"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

const (
	connectAttempts    = 5
	connectBackoff     = time.Second
	pingTimeout        = 5 * time.Second
	healthCheckPeriod  = 30 * time.Second
	defaultMaxLifetime = time.Hour
)

// PoolConfig builds the pgxpool configuration from the database section
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	if n := cfg.Database.MaxOpenConns; n > 0 {
		pc.MaxConns = int32(n)
	}
	if n := cfg.Database.MaxIdleConns; n > 0 && int32(n) <= pc.MaxConns {
		pc.MinConns = int32(n)
	}

	pc.MaxConnLifetime = defaultMaxLifetime
	if cfg.Database.ConnMaxLifetime != "" {
		d, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("invalid database.conn_max_lifetime %q: %w", cfg.Database.ConnMaxLifetime, err)
		}
		pc.MaxConnLifetime = d
	}
	pc.HealthCheckPeriod = healthCheckPeriod
	return pc, nil
}

// Connect opens the pool and waits until the server answers a ping, retrying
// with a linear backoff while the database is still starting up.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			return pool, nil
		}
		if attempt == connectAttempts {
			break
		}

		logger.Warn().Err(err).Int("attempt", attempt).Msg("Database not reachable yet, retrying")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * connectBackoff):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to establish database connection after %d attempts: %w", connectAttempts, err)
}
