package db

import (
	"context"
	"fmt"
	"time"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jpillora/backoff"
	"github.com/yigit/elearning/internal/config"
	"github.com/yigit/elearning/internal/pkg/helpers"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresDB database connection structure
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB creates a PostgreSQL pool, retrying with backoff until the
// database answers or database.connect_timeout elapses.
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	logLevel, err := tracelog.LogLevelFromString(cfg.Database.LogLevel)
	if err != nil {
		logger.Warn().Str("level", cfg.Database.LogLevel).Msg("Unknown database log level, using warn")
		logLevel = tracelog.LogLevelWarn
	}
	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(logger.WithField("component", "pgx")),
		LogLevel: logLevel,
	}

	connectTimeout := helpers.ParseDuration(cfg.Database.ConnectTimeout, 30*time.Second)
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	boff := backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
	}

	for {
		pool, err := connect(ctx, poolConfig)
		if err == nil {
			return &PostgresDB{Pool: pool}, nil
		}

		dur := boff.Duration()
		logger.Warn().Err(err).Dur("retrying after", dur).Msg("Database not ready")

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("failed to establish database connection: %w", err)
		case <-timer.C:
		}
	}
}

func connect(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs a function within a transaction
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	return WithTransaction(ctx, db.Pool, fn)
}

// TxBeginner is implemented by *pgxpool.Pool
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTransaction begins a transaction on conn, commits when fn succeeds and rolls back otherwise
func WithTransaction(ctx context.Context, conn TxBeginner, fn TransactionFn) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
