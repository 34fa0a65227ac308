// Package report issues read-only analytical queries against the warehouse
// and renders the results as tables. It is thin glue over the star schema;
// the invariants it relies on (no null fact foreign keys, sentinel defaults)
// are established by the ETL pipeline.
package report

import (
	"context"
	"database/sql"

	"finwarehouse/internal/ui"
	"finwarehouse/pkg/errors"
)

// Definition names one canned dashboard query.
type Definition struct {
	Name  string
	Title string
	Query string
}

// Reports is the set of dashboard queries exposed by the report command.
var Reports = []Definition{
	{
		Name:  "district-net-cash",
		Title: "Net Cash Flow by District",
		Query: `SELECT d.district_name, d.region,
       SUM(ft.amount) AS total_net_cash,
       COUNT(DISTINCT ft.account) AS account_count
FROM FactTrans ft
JOIN DimClientAccount ca ON ft.clientAcc_id = ca.clientAcc_id
JOIN DimDistrict d ON ca.distAcc_id = d.district_id
GROUP BY d.district_name, d.region
ORDER BY total_net_cash DESC`,
	},
	{
		Name:  "region-net-cash",
		Title: "Net Cash Flow by Region",
		Query: `SELECT d.region,
       SUM(ft.amount) AS total_net_cash,
       COUNT(DISTINCT d.district_id) AS district_count,
       COUNT(DISTINCT ft.account) AS account_count
FROM FactTrans ft
JOIN DimClientAccount ca ON ft.clientAcc_id = ca.clientAcc_id
JOIN DimDistrict d ON ca.distAcc_id = d.district_id
GROUP BY d.region
ORDER BY total_net_cash DESC`,
	},
	{
		Name:  "loans-by-year",
		Title: "Average Loan Amount by Year",
		Query: `SELECT d.year,
       AVG(fl.amount) AS avg_loan,
       COUNT(fl.loan_id) AS loan_count
FROM FactLoan fl
JOIN DimDate d ON fl.date_id = d.date_id
GROUP BY d.year
ORDER BY d.year`,
	},
	{
		Name:  "loans-by-region",
		Title: "Loan Count and Volume by Region",
		Query: `SELECT dd.region,
       COUNT(fl.loan_id) AS loan_count,
       SUM(fl.amount) AS total_amount,
       AVG(fl.payments) AS avg_payment
FROM FactLoan fl
JOIN DimClientAccount dca ON fl.clientAcc_id = dca.clientAcc_id
JOIN DimDistrict dd ON dca.distCli_id = dd.district_id
GROUP BY dd.region
ORDER BY loan_count DESC`,
	},
	{
		Name:  "card-types",
		Title: "Card Distribution by Type",
		Query: `SELECT type, COUNT(*) AS card_count
FROM DimCard
GROUP BY type
ORDER BY card_count DESC`,
	},
	{
		Name:  "monthly-volume",
		Title: "Monthly Transaction Volume",
		Query: `SELECT d.year, d.month,
       COUNT(ft.trans_id) AS trans_count,
       SUM(ft.amount) AS total_amount
FROM FactTrans ft
JOIN DimDate d ON ft.date_id = d.date_id
GROUP BY d.year, d.month
ORDER BY d.year, d.month`,
	},
}

// Lookup finds a report definition by name.
func Lookup(name string) (Definition, bool) {
	for _, def := range Reports {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// ResultSet is a generic query result for rendering.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Service runs dashboard queries through the result cache.
type Service struct {
	wh    *sql.DB
	cache *Cache
}

func NewService(wh *sql.DB, cache *Cache) *Service {
	return &Service{wh: wh, cache: cache}
}

// Query executes a read-only query, consulting the cache first.
func (s *Service) Query(ctx context.Context, query string) (*ResultSet, error) {
	if cached, ok := s.cache.Get(query); ok {
		return cached, nil
	}

	rows, err := s.wh.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractQueryFailed, "report query failed")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to read report columns")
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan report row")
		}

		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractQueryFailed, "report query failed")
	}

	s.cache.Put(query, result)
	return result, nil
}

// Render prints a result set as a table.
func (r *ResultSet) Render() {
	table := ui.NewTable(r.Columns)
	for _, row := range r.Rows {
		table.Append(row)
	}
	table.Render()
}
