package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

const orderQuery = `
SELECT order_id, account_id, bank_to, account_to, amount, k_symbol
FROM orders
ORDER BY order_id`

var factOrderColumns = []string{
	"order_id", "clientAcc_id", "account_to", "amount", "bank_to", "k_symbol",
}

// LoadOrders builds the Order fact table. Orders carry no date reference;
// only the client-account linkage matters, and rows without one are dropped.
//
// A nil accounts map rebuilds the lookup from the warehouse (standalone mode).
func LoadOrders(ctx context.Context, src, wh *sql.DB, accounts AccountMap) (LoadResult, error) {
	result := LoadResult{Table: "FactOrder"}

	var err error
	if accounts == nil {
		if accounts, err = AccountMapFromWarehouse(ctx, wh); err != nil {
			return result, err
		}
	}

	rows, err := src.QueryContext(ctx, orderQuery)
	if err != nil {
		return result, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	var records [][]interface{}
	for rows.Next() {
		var (
			orderID, accountID int
			bankTo, accountTo  sql.NullString
			amount             sql.NullFloat64
			kSymbol            sql.NullString
		)
		if err := rows.Scan(&orderID, &accountID, &bankTo, &accountTo, &amount, &kSymbol); err != nil {
			return result, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan order row")
		}

		surrogateID, ok := accounts[accountID]
		if !ok {
			result.Dropped++
			continue
		}

		records = append(records, []interface{}{
			orderID, surrogateID,
			parseAccountNumber(accountTo.String),
			amount.Float64,
			bankTo.String, kSymbol.String,
		})
	}
	if err := rows.Err(); err != nil {
		return result, errors.ExtractError(result.Table, err)
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, factOrderColumns, records)
	})
	if err != nil {
		return result, err
	}

	result.Loaded = len(records)
	return result, nil
}
