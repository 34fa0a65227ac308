// Package validate runs data quality checks against the loaded warehouse.
// Anomalies are reported as warnings and never fail the run; only a check
// that cannot execute at all returns an error.
package validate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"finwarehouse/internal/ui"
	"finwarehouse/pkg/errors"
)

// warehouseTables in render order.
var warehouseTables = []string{
	"DimDate", "DimDistrict", "DimClientAccount", "DimCard",
	"FactTrans", "FactLoan", "FactOrder",
}

// anomalyChecks is the fixed battery of referential-integrity and null
// checks. Each query returns a single count; anything above zero becomes a
// warning.
var anomalyChecks = []struct {
	name    string
	query   string
	message string
}{
	{
		name: "orphaned client districts",
		query: `SELECT COUNT(*) FROM DimClientAccount dca
			LEFT JOIN DimDistrict dd ON dca.distCli_id = dd.district_id
			WHERE dd.district_id IS NULL`,
		message: "client accounts with invalid client district references",
	},
	{
		name: "orphaned account districts",
		query: `SELECT COUNT(*) FROM DimClientAccount dca
			LEFT JOIN DimDistrict dd ON dca.distAcc_id = dd.district_id
			WHERE dd.district_id IS NULL`,
		message: "client accounts with invalid account district references",
	},
	{
		name: "orphaned transactions",
		query: `SELECT COUNT(*) FROM FactTrans ft
			LEFT JOIN DimClientAccount dca ON ft.clientAcc_id = dca.clientAcc_id
			WHERE dca.clientAcc_id IS NULL`,
		message: "transactions with invalid client account references",
	},
	{
		name:    "duplicate date keys",
		query:   "SELECT COUNT(*) - COUNT(DISTINCT date_id) FROM DimDate",
		message: "duplicate surrogate keys in DimDate",
	},
	{
		name:    "null transaction amounts",
		query:   "SELECT COUNT(*) FROM FactTrans WHERE amount IS NULL",
		message: "transactions with null amounts",
	},
}

// TableCount is a per-table row count for the report.
type TableCount struct {
	Table string
	Rows  int64
}

// Warning describes one anomaly found by a check.
type Warning struct {
	Check   string
	Count   int64
	Message string
}

// Report is the outcome of a validation pass.
type Report struct {
	RowCounts []TableCount
	Warnings  []Warning
}

// Run executes the full check battery against the warehouse.
func Run(ctx context.Context, wh *sql.DB) (*Report, error) {
	report := &Report{}

	for _, check := range anomalyChecks {
		var count int64
		if err := wh.QueryRowContext(ctx, check.query).Scan(&count); err != nil {
			return nil, errors.ValidationError(check.name, err)
		}
		if count > 0 {
			report.Warnings = append(report.Warnings, Warning{
				Check:   check.name,
				Count:   count,
				Message: fmt.Sprintf("found %d %s", count, check.message),
			})
		}
	}

	for _, table := range warehouseTables {
		var count int64
		if err := wh.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, errors.ValidationError("row count "+table, err)
		}
		report.RowCounts = append(report.RowCounts, TableCount{Table: table, Rows: count})
	}

	return report, nil
}

// Render prints the row counts and any warnings to stdout.
func (r *Report) Render() {
	table := ui.NewTable([]string{"Table", "Rows"})
	for _, tc := range r.RowCounts {
		table.Append([]string{tc.Table, strconv.FormatInt(tc.Rows, 10)})
	}
	table.Render()

	for _, w := range r.Warnings {
		ui.ShowWarning(w.Message)
	}
	if len(r.Warnings) == 0 {
		ui.ShowInfo("no data quality anomalies found")
	}
}
