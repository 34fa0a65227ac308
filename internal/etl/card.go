package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

const cardQuery = `
SELECT c.card_id, c.type, c.newissued, d.account_id
FROM card c
JOIN disp d ON c.disp_id = d.disp_id
ORDER BY c.card_id`

var dimCardColumns = []string{"card_id", "clientAcc_id", "date_id", "type"}

// LoadCards builds the Card dimension. Cards whose account has no
// OWNER-linked ClientAccount row are dropped (and counted); only owner-held
// cards survive into the warehouse.
//
// Nil maps rebuild the lookups from the warehouse (standalone mode).
func LoadCards(ctx context.Context, src, wh *sql.DB, dates DateMap, accounts AccountMap) (LoadResult, error) {
	result := LoadResult{Table: "DimCard"}

	var err error
	if dates == nil {
		if dates, err = DateMapFromWarehouse(ctx, wh); err != nil {
			return result, err
		}
	}
	if accounts == nil {
		if accounts, err = AccountMapFromWarehouse(ctx, wh); err != nil {
			return result, err
		}
	}

	rows, err := src.QueryContext(ctx, cardQuery)
	if err != nil {
		return result, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	var records [][]interface{}
	for rows.Next() {
		var (
			cardID             int
			cardType, issuedAt sql.NullString
			accountID          int
		)
		if err := rows.Scan(&cardID, &cardType, &issuedAt, &accountID); err != nil {
			return result, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan card row")
		}

		surrogateID, ok := accounts[accountID]
		if !ok {
			result.Dropped++
			continue
		}

		dateID := defaultDateID
		if issuedAt.Valid {
			if date, parsed := parseSourceDate(issuedAt.String); parsed {
				if id, found := dates[date.Format(isoDate)]; found {
					dateID = id
				}
			}
		}

		records = append(records, []interface{}{
			cardID, surrogateID, dateID,
			textOrDefault(cardType.String, cardType.Valid, "UNKNOWN"),
		})
	}
	if err := rows.Err(); err != nil {
		return result, errors.ExtractError(result.Table, err)
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, dimCardColumns, records)
	})
	if err != nil {
		return result, err
	}

	result.Loaded = len(records)
	return result, nil
}
