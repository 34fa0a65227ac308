package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

// DateMapFromWarehouse rebuilds the calendar-date to surrogate-key map from
// already-loaded DimDate rows. Used by standalone loader invocations; inside
// an orchestrated run the map returned by LoadDates is passed down instead.
func DateMapFromWarehouse(ctx context.Context, wh *sql.DB) (DateMap, error) {
	rows, err := wh.QueryContext(ctx, "SELECT date, date_id FROM DimDate")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "failed to read DimDate mappings")
	}
	defer rows.Close()

	dates := make(DateMap)
	for rows.Next() {
		var date string
		var id int
		if err := rows.Scan(&date, &id); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "failed to scan DimDate mapping")
		}
		dates[date] = id
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "failed to read DimDate mappings")
	}
	return dates, nil
}

// AccountMapFromWarehouse rebuilds the natural-account-id to surrogate-key
// map from already-loaded DimClientAccount rows.
func AccountMapFromWarehouse(ctx context.Context, wh *sql.DB) (AccountMap, error) {
	rows, err := wh.QueryContext(ctx, "SELECT account_id, clientAcc_id FROM DimClientAccount")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "failed to read DimClientAccount mappings")
	}
	defer rows.Close()

	accounts := make(AccountMap)
	for rows.Next() {
		var accountID, surrogateID int
		if err := rows.Scan(&accountID, &surrogateID); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "failed to scan DimClientAccount mapping")
		}
		accounts[accountID] = surrogateID
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLookupFailed, "failed to read DimClientAccount mappings")
	}
	return accounts, nil
}
