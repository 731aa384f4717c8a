package db

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	TracingEnabled bool
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://postgres@%s:%s/%s",
		params.DBHost, params.DBPort, params.DBName,
	)
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}

// AcquireUserLock takes a transaction scoped advisory lock for the given user.
// All track mutations for one user go through transactions holding this lock,
// so two devices submitting workouts at the same time cannot lose updates.
// The lock is released automatically when the transaction ends.
func AcquireUserLock(ctx context.Context, tx pgx.Tx, userID int) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", UserLockKey(userID)); err != nil {
		return fmt.Errorf("acquire user advisory lock: %w", err)
	}
	return nil
}

// UserLockKey maps a user id to the advisory lock keyspace.
func UserLockKey(userID int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "user-tracks-%d", userID)
	return int64(h.Sum64())
}
