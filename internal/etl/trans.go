package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

const transQuery = `
SELECT trans_id, account_id, newdate, type, operation,
       amount, balance, k_symbol, bank, account
FROM trans
ORDER BY trans_id`

var factTransColumns = []string{
	"trans_id", "clientAcc_id", "date_id", "account", "type", "operation",
	"k_symbol", "bank", "amount", "balance",
}

// LoadTransactions builds the Transaction fact table. Rows without an
// OWNER-linked client-account are dropped; an unresolved date falls back to
// the sentinel surrogate. The free-text counterparty account parses to an
// integer, 0 on failure.
//
// Nil maps rebuild the lookups from the warehouse (standalone mode).
func LoadTransactions(ctx context.Context, src, wh *sql.DB, dates DateMap, accounts AccountMap) (LoadResult, error) {
	result := LoadResult{Table: "FactTrans"}

	var err error
	if dates, accounts, err = resolveLookups(ctx, wh, dates, accounts); err != nil {
		return result, err
	}

	rows, err := src.QueryContext(ctx, transQuery)
	if err != nil {
		return result, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	var records [][]interface{}
	for rows.Next() {
		var (
			transID, accountID               int
			transDate                        sql.NullString
			transType, operation             sql.NullString
			amount, balance                  sql.NullFloat64
			kSymbol, bank, counterpartyAccnt sql.NullString
		)
		if err := rows.Scan(&transID, &accountID, &transDate, &transType, &operation,
			&amount, &balance, &kSymbol, &bank, &counterpartyAccnt); err != nil {
			return result, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan transaction row")
		}

		surrogateID, ok := accounts[accountID]
		if !ok {
			result.Dropped++
			continue
		}

		records = append(records, []interface{}{
			transID, surrogateID, resolveDateID(dates, transDate),
			parseAccountNumber(counterpartyAccnt.String),
			textOrDefault(transType.String, transType.Valid, "UNKNOWN"),
			textOrDefault(operation.String, operation.Valid, "UNKNOWN"),
			kSymbol.String, bank.String,
			amount.Float64, balance.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return result, errors.ExtractError(result.Table, err)
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, factTransColumns, records)
	})
	if err != nil {
		return result, err
	}

	result.Loaded = len(records)
	return result, nil
}

// resolveDateID maps a source date to its surrogate key, defaulting to the
// sentinel when absent or unmatched.
func resolveDateID(dates DateMap, raw sql.NullString) int {
	if !raw.Valid {
		return defaultDateID
	}
	date, ok := parseSourceDate(raw.String)
	if !ok {
		return defaultDateID
	}
	if id, found := dates[date.Format(isoDate)]; found {
		return id
	}
	return defaultDateID
}

// resolveLookups fills in whichever maps the caller did not supply by
// querying the warehouse.
func resolveLookups(ctx context.Context, wh *sql.DB, dates DateMap, accounts AccountMap) (DateMap, AccountMap, error) {
	var err error
	if dates == nil {
		if dates, err = DateMapFromWarehouse(ctx, wh); err != nil {
			return nil, nil, err
		}
	}
	if accounts == nil {
		if accounts, err = AccountMapFromWarehouse(ctx, wh); err != nil {
			return nil, nil, err
		}
	}
	return dates, accounts, nil
}
