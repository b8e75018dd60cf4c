package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/41rumble/crew-planner/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose transaction returns Err from the
// FailOn-th write (counting from 1). When Match is set only writes whose SQL
// contains it are counted, so a test can fail "the second department insert"
// without knowing how many other rows are written first. Reads are never
// counted or failed.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	// Calls counts the writes that matched, including the failing one.
	Calls atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &countingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type countingTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.uow.Match == "" || strings.Contains(query, c.uow.Match) {
		if c.uow.Calls.Add(1) == c.uow.FailOn {
			return nil, c.uow.Err
		}
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
