package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finwarehouse/internal/config"
	"finwarehouse/internal/db"
	"finwarehouse/internal/report"
	"finwarehouse/internal/ui"
)

var reportNoCache bool

// reportCmd runs the canned dashboard queries against the warehouse and
// renders the results as tables.
var reportCmd = &cobra.Command{
	Use:   "report [name...]",
	Short: "Run analytical reports against the warehouse",
	Long: `Run one or more named analytical reports. Without arguments, all
reports run. Results are cached in memory for the configured TTL within a
single invocation that runs several reports sharing queries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		defs := report.Reports
		if len(args) > 0 {
			defs = defs[:0:0]
			for _, name := range args {
				def, ok := report.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown report %q (try 'finwarehouse report list')", name)
				}
				defs = append(defs, def)
			}
		}

		wh, err := db.NewConnector(cfg).OpenWarehouse(cmd.Context())
		if err != nil {
			ui.ShowError(err)
			return err
		}
		defer wh.Close()

		cacheEnabled := cfg.Cache.Enabled && !reportNoCache
		cache := report.NewCache(cacheEnabled, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		service := report.NewService(wh, cache)

		title := color.New(color.Bold, color.FgCyan)
		for _, def := range defs {
			title.Printf("\n%s\n", def.Title)
			result, err := service.Query(cmd.Context(), def.Query)
			if err != nil {
				ui.ShowError(err)
				return err
			}
			result.Render()
		}
		return nil
	},
}

// reportListCmd enumerates the available report names.
var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available reports",
	Run: func(cmd *cobra.Command, args []string) {
		for _, def := range report.Reports {
			fmt.Printf("  %-20s %s\n", def.Name, def.Title)
		}
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportNoCache, "no-cache", false, "bypass the query result cache")
	reportCmd.AddCommand(reportListCmd)
	rootCmd.AddCommand(reportCmd)
}
