package cmd

import (
	"github.com/spf13/cobra"

	"finwarehouse/internal/config"
	"finwarehouse/internal/db"
	"finwarehouse/internal/ui"
	"finwarehouse/internal/validate"
)

// validateCmd runs the data quality battery standalone, opening a fresh
// warehouse connection for the duration of the pass.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run data quality checks against the loaded warehouse",
	Long: `Check referential integrity, duplicate surrogate keys and null
amounts in the warehouse, and report row counts per table. Anomalies are
reported as warnings; the command only fails if a check cannot execute.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		wh, err := db.NewConnector(cfg).OpenWarehouse(cmd.Context())
		if err != nil {
			ui.ShowError(err)
			return err
		}
		defer wh.Close()

		report, err := validate.Run(cmd.Context(), wh)
		if err != nil {
			ui.ShowError(err)
			return err
		}

		report.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
