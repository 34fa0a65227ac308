package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

// dateUnionQuery gathers every distinct date value seen across the four
// date-bearing source tables, sorted ascending so surrogate id order matches
// chronological order.
const dateUnionQuery = `
SELECT DISTINCT newdate AS date FROM (
    SELECT newdate FROM trans
    UNION SELECT newdate FROM loan
    UNION SELECT newissued AS newdate FROM card
    UNION SELECT newdate FROM account
) AS all_dates
WHERE newdate IS NOT NULL
ORDER BY newdate`

var dimDateColumns = []string{"date_id", "date", "quarter", "year", "month", "day"}

// LoadDates builds the Date dimension and returns the calendar-date to
// surrogate-key map for dependent loaders. Rows whose date matches neither
// the 8-digit nor the ISO format are skipped, never fatal.
func LoadDates(ctx context.Context, src, wh *sql.DB) (LoadResult, DateMap, error) {
	result := LoadResult{Table: "DimDate"}

	rows, err := src.QueryContext(ctx, dateUnionQuery)
	if err != nil {
		return result, nil, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	var raws []string
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return result, nil, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan source date")
		}
		if raw.Valid {
			raws = append(raws, raw.String)
		}
	}
	if err := rows.Err(); err != nil {
		return result, nil, errors.ExtractError(result.Table, err)
	}

	dates := make(DateMap, len(raws))
	records := make([][]interface{}, 0, len(raws))
	nextID := 1
	for _, raw := range raws {
		date, ok := parseSourceDate(raw)
		if !ok {
			result.Dropped++
			continue
		}
		iso := date.Format(isoDate)
		records = append(records, []interface{}{
			nextID, iso, quarterOf(int(date.Month())), date.Year(), int(date.Month()), date.Day(),
		})
		dates[iso] = nextID
		nextID++
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, dimDateColumns, records)
	})
	if err != nil {
		return result, nil, err
	}

	result.Loaded = len(records)
	return result, dates, nil
}
