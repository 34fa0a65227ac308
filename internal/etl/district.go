package etl

import (
	"context"
	"database/sql"

	"finwarehouse/pkg/errors"
)

const districtQuery = `
SELECT district_id, district_name, region, inhabitants, noCities,
       ratio_urbaninhabitants, average_salary, unemployment,
       noEntrepreneur, noCrimes
FROM district
ORDER BY district_id`

var dimDistrictColumns = []string{
	"district_id", "district_name", "region", "inhabitants", "noCities",
	"ratio_urbaninhabitants", "average_salary", "unemployment",
	"noEntrepreneur", "noCrimes",
}

// LoadDistricts copies the district reference data into the warehouse. The
// natural district id is carried over, not regenerated; numeric fields
// default to zero so the dimension never holds nulls.
func LoadDistricts(ctx context.Context, src, wh *sql.DB) (LoadResult, error) {
	result := LoadResult{Table: "DimDistrict"}

	rows, err := src.QueryContext(ctx, districtQuery)
	if err != nil {
		return result, errors.ExtractError(result.Table, err)
	}
	defer rows.Close()

	var records [][]interface{}
	for rows.Next() {
		var (
			id                               int
			name, region                     sql.NullString
			inhabitants, cities              sql.NullInt64
			urbanRatio, salary, unemployment sql.NullFloat64
			entrepreneurs, crimes            sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &region, &inhabitants, &cities,
			&urbanRatio, &salary, &unemployment, &entrepreneurs, &crimes); err != nil {
			return result, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan district row")
		}

		records = append(records, []interface{}{
			id, name.String, region.String,
			inhabitants.Int64, cities.Int64,
			urbanRatio.Float64, salary.Float64, unemployment.Float64,
			entrepreneurs.Int64, crimes.Int64,
		})
	}
	if err := rows.Err(); err != nil {
		return result, errors.ExtractError(result.Table, err)
	}

	err = loadInTx(ctx, wh, result.Table, func(tx *sql.Tx) error {
		return insertBatch(ctx, tx, result.Table, dimDistrictColumns, records)
	})
	if err != nil {
		return result, err
	}

	result.Loaded = len(records)
	return result, nil
}
