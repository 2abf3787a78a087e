package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RetryPolicy bounds the connection attempts made at startup.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 50, Delay: 3 * time.Second}

// ConnectPostgres opens a pool and pings it, retrying until policy is exhausted or ctx is done.
func ConnectPostgres(ctx context.Context, dsn string, maxConns int32, policy RetryPolicy, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}

	logger.Info("Attempting to connect to PostgreSQL", zap.Int("max_retries", policy.MaxRetries), zap.Duration("retry_delay", policy.Delay))

	var lastErr error
	for attempt := 1; attempt <= policy.MaxRetries; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				logger.Info("Successfully connected and pinged PostgreSQL", zap.Int("attempt", attempt))
				return pool, nil
			}
			pool.Close()
		}

		lastErr = fmt.Errorf("postgres not reachable (attempt %d/%d): %w", attempt, policy.MaxRetries, err)
		logger.Warn("PostgreSQL connection failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == policy.MaxRetries {
			break
		}
		if err := sleep(ctx, policy.Delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// ConnectRedis creates a client and pings it with the same retry semantics as ConnectPostgres.
func ConnectRedis(ctx context.Context, opts *redis.Options, policy RetryPolicy, logger *zap.Logger) (*redis.Client, error) {
	logger.Info("Attempting to connect and ping Redis", zap.String("address", opts.Addr), zap.Int("db", opts.DB))

	var lastErr error
	for attempt := 1; attempt <= policy.MaxRetries; attempt++ {
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("Successfully connected and pinged Redis", zap.Int("attempt", attempt))
			return client, nil
		}
		_ = client.Close()

		lastErr = fmt.Errorf("redis not reachable (attempt %d/%d): %w", attempt, policy.MaxRetries, err)
		logger.Warn("Redis ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == policy.MaxRetries {
			break
		}
		if err := sleep(ctx, policy.Delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
