package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	txcontext "clms/pkg/platform/tx"
)

const defaultGraphTxTimeout = 5 * time.Second

// graphPostgresTx runs a master-data unit of work in one SQL transaction.
// A transaction-scoped advisory lock on the graph id serializes writers of
// the same graph across instances.
type graphPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newGraphPostgresTx(db *sql.DB) *graphPostgresTx {
	return &graphPostgresTx{db: db}
}

func (t *graphPostgresTx) RunInTx(ctx context.Context, graphID id.GraphID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := txcontext.From(ctx); ok {
		return fn(ctx)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultGraphTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin graph tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, graphID.String()); err != nil {
		return fmt.Errorf("lock graph %s: %w", graphID, err)
	}
	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit graph tx: %w", err)
	}
	return nil
}
