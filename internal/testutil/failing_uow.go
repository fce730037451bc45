package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/HKK13/hello-bott/internal/db"
)

// FailingWriteUoW runs transactions through db.SQLiteUnitOfWork but fails
// the Nth write inside each one, so rollback paths of multi-write use cases
// can be exercised against a real database. Writes are counted from 1 per
// transaction; reads are never failed.
type FailingWriteUoW struct {
	inner  db.UnitOfWork
	failOn int32
	err    error
	writes atomic.Int32
}

// NewFailingWriteUoW returns a UoW over database whose failOn-th write in a
// transaction returns err instead of reaching SQLite.
func NewFailingWriteUoW(database *sql.DB, failOn int32, err error) *FailingWriteUoW {
	return &FailingWriteUoW{inner: db.NewSQLiteUnitOfWork(database), failOn: failOn, err: err}
}

// Writes reports how many writes the last transaction attempted, including
// the failed one.
func (u *FailingWriteUoW) Writes() int { return int(u.writes.Load()) }

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	u.writes.Store(0)
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWriter{DBTX: tx, uow: u})
	})
}

type failingWriter struct {
	db.DBTX
	uow *FailingWriteUoW
}

func (w *failingWriter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if w.uow.writes.Add(1) == w.uow.failOn {
		return nil, w.uow.err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
