package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

// clientAccountQuery joins accounts to their owning client. Only OWNER
// dispositions qualify; authorized users never get a dimension row. The
// explicit secondary sort on client_id keeps surrogate id assignment stable
// across reloads even if the join returns ties.
const clientAccountQuery = `
SELECT a.account_id, c.client_id, a.frequency, a.newdate, c.district_id, d.type
FROM account a
JOIN disp d ON a.account_id = d.account_id
JOIN client c ON d.client_id = c.client_id
WHERE d.type = 'OWNER'
ORDER BY a.account_id, c.client_id`

var dimClientAccountColumns = []string{
	"clientAcc_id", "client_id", "account_id", "type",
	"distCli_id", "distAcc_id", "date_id", "frequency",
}

// LoadClientAccounts builds the ClientAccount dimension, assigning surrogate
// ids sequentially in join order. The account's opening date resolves through
// the Date dimension map, defaulting to the first date row when unmatched.
// Source data carries the same district for client and account, so both
// reference columns take the client's district id.
//
// A nil dates map rebuilds the lookup from the warehouse (standalone mode).
func LoadClientAccounts(ctx context.Context, src, wh *sql.DB, dates DateMap) (LoadResult, AccountMap, error) {
	result := LoadResult{Table: "DimClientAccount"}

	if dates == nil {
		var err error
		if dates, err = DateMapFromWarehouse(ctx, wh); err != nil {
			return result, nil, err
		}
	}

	rows, err := src.QueryContext(ctx, clientAccountQuery)
	if err != nil {
		return result, nil, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	accounts := make(AccountMap)
	var records [][]interface{}
	nextID := 1
	for rows.Next() {
		var (
			accountID, clientID int
			frequency, openDate sql.NullString
			districtID          int
			dispType            string
		)
		if err := rows.Scan(&accountID, &clientID, &frequency, &openDate, &districtID, &dispType); err != nil {
			return result, nil, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan client account row")
		}

		dateID := defaultDateID
		if openDate.Valid {
			if date, ok := parseSourceDate(openDate.String); ok {
				if id, found := dates[date.Format(isoDate)]; found {
					dateID = id
				}
			}
		}

		records = append(records, []interface{}{
			nextID, clientID, accountID, dispType,
			districtID, districtID, dateID,
			textOrDefault(frequency.String, frequency.Valid, "UNKNOWN"),
		})
		accounts[accountID] = nextID
		nextID++
	}
	if err := rows.Err(); err != nil {
		return result, nil, errors.ExtractError(result.Table, err)
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, dimClientAccountColumns, records)
	})
	if err != nil {
		return result, nil, err
	}

	result.Loaded = len(records)
	return result, accounts, nil
}
