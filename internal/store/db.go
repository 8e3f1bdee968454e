package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql that store implementations execute
// queries against. Both *sql.DB and *sql.Tx satisfy it, so a store can be
// bound to a plain connection or rebound to a transaction for atomic
// composition (see the postgres store's WithTx).
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
