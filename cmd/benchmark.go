package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"finwarehouse/internal/benchmark"
	"finwarehouse/internal/config"
	"finwarehouse/internal/db"
	"finwarehouse/internal/report"
	"finwarehouse/internal/ui"
)

var benchmarkIterations int

// benchmarkCmd times the report queries with EXPLAIN ANALYZE.
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark [name...]",
	Short: "Benchmark warehouse query plans",
	Long: `Run EXPLAIN ANALYZE on the named report queries (default: all) for a
number of iterations and report min/median/avg/max execution times.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		iterations := benchmarkIterations
		if iterations == 0 {
			iterations = cfg.Benchmark.Iterations
		}

		defs := report.Reports
		if len(args) > 0 {
			defs = defs[:0:0]
			for _, name := range args {
				def, ok := report.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown report %q", name)
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

		var results []*benchmark.Result
		for _, def := range defs {
			ui.ShowInfo("benchmarking " + def.Name)
			result, err := benchmark.Run(cmd.Context(), wh, def.Name, def.Query, iterations)
			if err != nil {
				ui.ShowError(err)
				return err
			}
			results = append(results, result)
		}

		benchmark.Render(results)
		return nil
	},
}

func init() {
	benchmarkCmd.Flags().IntVarP(&benchmarkIterations, "iterations", "n", 0, "iterations per query (default from config)")
	rootCmd.AddCommand(benchmarkCmd)
}
