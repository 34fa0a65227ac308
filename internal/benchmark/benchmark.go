// Package benchmark times warehouse query plans with EXPLAIN ANALYZE.
package benchmark

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"finwarehouse/internal/ui"
	"finwarehouse/pkg/errors"
)

var (
	// actual time=0.042..1.337 — the end time of the outermost node is the
	// total query time.
	actualTimePattern = regexp.MustCompile(`actual time=[\d.]+\.\.([\d.]+)`)
	fallbackPattern   = regexp.MustCompile(`time=([\d.]+)`)
)

// Result holds timing statistics for one benchmarked query, in milliseconds.
type Result struct {
	Name       string
	Iterations int
	Min        float64
	Max        float64
	Avg        float64
	Median     float64
}

// Run executes EXPLAIN ANALYZE on the query the given number of times. The
// reported time is MySQL's own measurement when the plan output yields one,
// otherwise the wall-clock round trip.
func Run(ctx context.Context, wh *sql.DB, name, query string, iterations int) (*Result, error) {
	if iterations < 1 {
		iterations = 1
	}

	times := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		elapsed, err := runOnce(ctx, wh, query)
		if err != nil {
			return nil, err
		}
		times = append(times, elapsed)
	}

	return summarize(name, times), nil
}

func runOnce(ctx context.Context, wh *sql.DB, query string) (float64, error) {
	start := time.Now()

	rows, err := wh.QueryContext(ctx, "EXPLAIN ANALYZE "+query)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeExtractQueryFailed, "EXPLAIN ANALYZE failed")
	}
	defer rows.Close()

	var plan strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeExtractScanFailed, "failed to scan plan output")
		}
		plan.WriteString(line)
		plan.WriteString("\n")
	}
	if err := rows.Err(); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeExtractQueryFailed, "EXPLAIN ANALYZE failed")
	}

	wallClock := float64(time.Since(start).Microseconds()) / 1000.0

	if reported := extractRuntime(plan.String()); reported > 0 {
		return reported, nil
	}
	return wallClock, nil
}

// extractRuntime pulls the execution time out of EXPLAIN ANALYZE output,
// taking the maximum end time across plan nodes.
func extractRuntime(plan string) float64 {
	best := 0.0
	for _, match := range actualTimePattern.FindAllStringSubmatch(plan, -1) {
		if v, err := strconv.ParseFloat(match[1], 64); err == nil && v > best {
			best = v
		}
	}
	if best > 0 {
		return best
	}
	for _, match := range fallbackPattern.FindAllStringSubmatch(plan, -1) {
		if v, err := strconv.ParseFloat(match[1], 64); err == nil && v > best {
			best = v
		}
	}
	return best
}

func summarize(name string, times []float64) *Result {
	result := &Result{Name: name, Iterations: len(times)}
	if len(times) == 0 {
		return result
	}

	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)

	result.Min = sorted[0]
	result.Max = sorted[len(sorted)-1]
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		result.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		result.Median = sorted[mid]
	}

	total := 0.0
	for _, t := range times {
		total += t
	}
	result.Avg = total / float64(len(times))
	return result
}

// Render prints benchmark results as a table.
func Render(results []*Result) {
	table := ui.NewTable([]string{"Query", "Runs", "Min (ms)", "Median (ms)", "Avg (ms)", "Max (ms)"})
	for _, r := range results {
		table.Append([]string{
			r.Name,
			strconv.Itoa(r.Iterations),
			fmt.Sprintf("%.2f", r.Min),
			fmt.Sprintf("%.2f", r.Median),
			fmt.Sprintf("%.2f", r.Avg),
			fmt.Sprintf("%.2f", r.Max),
		})
	}
	table.Render()
}
