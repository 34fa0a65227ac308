package etl

import (
	"context"
	"database/sql"
	"strings"

	"finwarehouse/pkg/errors"
)

// insertChunkSize bounds the number of rows per multi-row INSERT so the
// statement stays under MySQL's placeholder and packet limits.
const insertChunkSize = 500

// insertBatch writes all rows into the table with multi-row INSERT
// statements inside the given transaction. The caller owns commit/rollback.
func insertBatch(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	prefix := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES "

	for start := 0; start < len(rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var b strings.Builder
		b.WriteString(prefix)
		args := make([]interface{}, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(placeholder)
			args = append(args, row...)
		}

		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return errors.LoadError(table, err)
		}
	}
	return nil
}

// loadInTx runs fn inside a warehouse transaction, rolling back on any error
// so a failed loader never leaves a partial batch behind.
func loadInTx(ctx context.Context, wh *sql.DB, table string, fn func(tx *sql.Tx) error) error {
	tx, err := wh.BeginTx(ctx, nil)
	if err != nil {
		return errors.LoadError(table, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeLoadCommitFailed, "failed to commit load for "+table)
	}
	return nil
}
