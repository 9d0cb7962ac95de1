package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

const codeSerializationFailure = "40001"

// ErrConcurrentUpdate is returned when a repeatable-read transaction lost a
// race with another writer. The whole request was rolled back and may be
// resent.
var ErrConcurrentUpdate = fmt.Errorf("%w: record changed by a concurrent request, retry", shared.ErrConflict)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx runs fn in a repeatable-read transaction. Any error from fn rolls
// the transaction back; serialization failures surface as ErrConcurrentUpdate.
func WithTx(ctx context.Context, pool TxBeginner, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return translateTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateTxError(fmt.Errorf("platform/db: commit tx: %w", err))
	}
	return nil
}

func translateTxError(err error) error {
	if hasCode(err, codeSerializationFailure, "") {
		return ErrConcurrentUpdate
	}
	return err
}
