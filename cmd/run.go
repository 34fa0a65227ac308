package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"finwarehouse/internal/config"
	"finwarehouse/internal/etl"
	"finwarehouse/internal/ui"
)

var runDDLFile string

// runCmd executes the full pipeline: schema reset, dimension loads in
// dependency order, fact loads, then validation. Exit status communicates
// success or failure to the caller.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full warehouse ETL pipeline",
	Long: `Drop and rebuild every warehouse table from the source database.

The run is a full rebuild: dimensions load first (Date, District,
ClientAccount, Card), then the fact tables, then a data quality validation
pass that reports anomalies without failing the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if runDDLFile != "" {
			cfg.Schema.DDLFile = runDDLFile
		}

		ui.ShowHeader("Financial Warehouse ETL")

		pipeline := etl.NewPipeline(cfg)
		summary, err := pipeline.Run(cmd.Context())
		if err != nil {
			ui.ShowError(err)
			return fmt.Errorf("pipeline failed in state %q", pipeline.State())
		}

		fmt.Println()
		table := ui.NewTable([]string{"Table", "Loaded", "Dropped"})
		for _, r := range summary.Results {
			table.Append([]string{r.Table, strconv.Itoa(r.Loaded), strconv.Itoa(r.Dropped)})
		}
		table.Render()

		if summary.Report != nil {
			summary.Report.Render()
		}

		ui.ShowSuccess("pipeline completed in " + ui.FormatDuration(summary.Elapsed))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDDLFile, "ddl", "", "path to the warehouse DDL file (overrides config)")
	rootCmd.AddCommand(runCmd)
}
