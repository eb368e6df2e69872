// Package dbx holds the database helpers shared by the server's Postgres
// repositories and the client's SQLite state store.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs from a connection. *sql.DB and *sql.Tx
// both satisfy it, so a repository can be bound to either.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InTx runs fn inside a transaction and returns its result. The transaction
// commits when fn returns nil and rolls back otherwise; a panic in fn rolls
// back and is rethrown.
//
//	st, err := dbx.InTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) (State, error) {
//	    return load(ctx, metadata.NewSQLiteRepository(tx))
//	})
func InTx[T any](ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) (T, error)) (res T, err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return res, err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			var zero T
			res = zero
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// WithTx is InTx for functions without a result.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	_, err := InTx(ctx, db, opts, func(ctx context.Context, tx DBTX) (struct{}, error) {
		return struct{}{}, fn(ctx, tx)
	})
	return err
}
