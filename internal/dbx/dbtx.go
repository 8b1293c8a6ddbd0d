// Package dbx holds the small database plumbing the repositories build on:
// the DBTX interface that lets a repository run against either a plain
// connection or an open transaction, and WithTx for multi-statement
// sequences that must commit or roll back as one.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql the repositories call. *sql.DB and
// *sql.Tx both satisfy it, so the same repository code serves transactional
// and non-transactional callers.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx opens a transaction on db, hands it to fn as a DBTX, and commits
// when fn returns nil. An error from fn rolls the transaction back and is
// returned unwrapped, so callers can keep matching sentinels with errors.Is.
// A panic inside fn also rolls back before being rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
