package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier represents the minimal database operations used by services.
// Both *pgxpool.Pool and pgxmock pools satisfy this interface.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Offline stands in for a pool that could not be opened. Every call fails with
// ErrUnavailable so handlers answer 503.
var Offline Querier = offline{}

type offline struct{}

func (offline) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrUnavailable
}

func (offline) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrUnavailable
}

func (offline) QueryRow(context.Context, string, ...any) pgx.Row {
	return offlineRow{}
}

type offlineRow struct{}

func (offlineRow) Scan(...any) error { return ErrUnavailable }
