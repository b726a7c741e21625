package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Serializable retry policy: a conflicting transaction is rolled back by the
// store (MySQL 1213 deadlock, 1205 lock wait timeout) and must be re-run as a
// whole. Retries are bounded; an exhausted retry is an internal failure, never
// a capacity answer.
const maxTxAttempts = 3

// InSerializableTx runs fn inside a SERIALIZABLE transaction, retrying the
// whole function on transient serialization aborts. fn must be safe to re-run
// from scratch.
func InSerializableTx(ctx context.Context, database *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}

		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			if IsRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if IsRetryable(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	}
	return fmt.Errorf("transaction aborted after %d attempts: %w", maxTxAttempts, lastErr)
}

// IsRetryable reports whether err is a transient store-level conflict that
// warrants re-running the transaction.
func IsRetryable(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == 1213 || me.Number == 1205
}

// IsDuplicateKey reports a unique-constraint violation (MySQL 1062).
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
