// Package schema drops and recreates the warehouse star schema from an
// external DDL definition.
package schema

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"finwarehouse/internal/common"
	"finwarehouse/pkg/errors"
)

// dropOrder lists warehouse tables fact-first so the drop sequence never
// violates a foreign key, even with FK checks suspended.
var dropOrder = []string{
	"FactOrder",
	"FactLoan",
	"FactTrans",
	"DimCard",
	"DimClientAccount",
	"DimDistrict",
	"DimDate",
}

// Reset drops all warehouse tables and recreates them from the DDL file,
// statement by statement. Every failure here is fatal to the run; a partial
// schema left by a failed script is cleared by the next run's drop phase.
func Reset(ctx context.Context, wh *sql.DB, ddlFile string) error {
	if err := dropTables(ctx, wh); err != nil {
		return err
	}
	return applyDDL(ctx, wh, ddlFile)
}

func dropTables(ctx context.Context, wh *sql.DB) error {
	if _, err := wh.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		return errors.Wrap(err, errors.ErrCodeSchemaDropFailed, "failed to suspend foreign key checks")
	}

	for _, table := range dropOrder {
		if _, err := wh.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return errors.Wrap(err, errors.ErrCodeSchemaDropFailed, "failed to drop table "+table).
				WithContext("table", table)
		}
	}

	if _, err := wh.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		return errors.Wrap(err, errors.ErrCodeSchemaDropFailed, "failed to re-enable foreign key checks")
	}
	return nil
}

func applyDDL(ctx context.Context, wh *sql.DB, ddlFile string) error {
	cleaned, err := common.CleanPath(ddlFile)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSchemaFileMissing, "invalid DDL file path").
			WithContext("file", ddlFile)
	}

	content, err := os.ReadFile(cleaned) // #nosec G304 - path is validated
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSchemaFileMissing, "warehouse DDL definition not found").
			WithContext("file", ddlFile).
			WithSuggestions("Check the schema.ddl_file configuration value")
	}

	statements := SplitStatements(string(content))
	if len(statements) == 0 {
		return errors.New(errors.ErrCodeSchemaFileMissing, "warehouse DDL definition is empty").
			WithContext("file", ddlFile)
	}

	// MySQL commits DDL implicitly, so there is nothing to roll back here: a
	// mid-script failure leaves the earlier tables standing and the next
	// run's drop phase clears them.
	for _, stmt := range statements {
		if _, err := wh.ExecContext(ctx, stmt); err != nil {
			return errors.SchemaError("DDL statement failed", err).
				WithContext("statement", truncate(stmt, 120))
		}
	}
	return nil
}

// SplitStatements splits a SQL script on semicolons, dropping empty fragments
// and line comments.
func SplitStatements(script string) []string {
	var statements []string
	for _, raw := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
