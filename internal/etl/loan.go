package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

// loanQuery enriches each loan with its status description from the
// reference table, defaulting to 'Unknown' for unmapped statuses.
const loanQuery = `
SELECT l.loan_id, l.account_id, l.newdate, l.amount, l.duration,
       l.payments, l.status, COALESCE(ls.description, 'Unknown') AS description
FROM loan l
LEFT JOIN ref_loanstatus ls ON l.status = ls.status
ORDER BY l.loan_id`

var factLoanColumns = []string{
	"loan_id", "clientAcc_id", "date_id", "status", "amount", "duration",
	"payments", "description",
}

// LoadLoans builds the Loan fact table. A null status becomes the sentinel
// "U"; rows without an OWNER-linked client-account are dropped.
//
// Nil maps rebuild the lookups from the warehouse (standalone mode).
func LoadLoans(ctx context.Context, src, wh *sql.DB, dates DateMap, accounts AccountMap) (LoadResult, error) {
	result := LoadResult{Table: "FactLoan"}

	var err error
	if dates, accounts, err = resolveLookups(ctx, wh, dates, accounts); err != nil {
		return result, err
	}

	rows, err := src.QueryContext(ctx, loanQuery)
	if err != nil {
		return result, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	var records [][]interface{}
	for rows.Next() {
		var (
			loanID, accountID int
			loanDate          sql.NullString
			amount, duration  sql.NullInt64
			payments          sql.NullFloat64
			status            sql.NullString
			description       string
		)
		if err := rows.Scan(&loanID, &accountID, &loanDate, &amount, &duration,
			&payments, &status, &description); err != nil {
			return result, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan loan row")
		}

		surrogateID, ok := accounts[accountID]
		if !ok {
			result.Dropped++
			continue
		}

		records = append(records, []interface{}{
			loanID, surrogateID, resolveDateID(dates, loanDate),
			textOrDefault(status.String, status.Valid, "U"),
			amount.Int64, duration.Int64, payments.Float64,
			description,
		})
	}
	if err := rows.Err(); err != nil {
		return result, errors.ExtractError(result.Table, err)
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, factLoanColumns, records)
	})
	if err != nil {
		return result, err
	}

	result.Loaded = len(records)
	return result, nil
}
