package benchmark

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finwarehouse/internal/testutil"
)

func TestExtractRuntime(t *testing.T) {
	plan := `-> Aggregate: count(0)  (actual time=1.042..1.337 rows=1 loops=1)
    -> Table scan on DimCard  (cost=18.9 rows=177) (actual time=0.055..1.201 rows=177 loops=1)`

	// The outermost node's end time wins
	assert.InDelta(t, 1.337, extractRuntime(plan), 0.0001)
}

func TestExtractRuntimeFallbackPattern(t *testing.T) {
	assert.InDelta(t, 4.2, extractRuntime("query finished, time=4.2 ms"), 0.0001)
	assert.Zero(t, extractRuntime("no timing information here"))
}

func TestSummarize(t *testing.T) {
	r := summarize("card-types", []float64{4.0, 1.0, 3.0, 2.0})

	assert.Equal(t, "card-types", r.Name)
	assert.Equal(t, 4, r.Iterations)
	assert.Equal(t, 1.0, r.Min)
	assert.Equal(t, 4.0, r.Max)
	assert.Equal(t, 2.5, r.Avg)
	assert.Equal(t, 2.5, r.Median, "even count takes mean of middle pair")

	odd := summarize("x", []float64{5.0, 1.0, 3.0})
	assert.Equal(t, 3.0, odd.Median)

	empty := summarize("x", nil)
	assert.Equal(t, 0, empty.Iterations)
	assert.Zero(t, empty.Avg)
}

func TestRunUsesReportedTime(t *testing.T) {
	wh, mock := testutil.MockDB(t)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery("EXPLAIN ANALYZE SELECT").WillReturnRows(
			sqlmock.NewRows([]string{"EXPLAIN"}).
				AddRow("-> Table scan on DimCard (actual time=0.1..2.5 rows=10 loops=1)"))
	}

	result, err := Run(context.Background(), wh, "card-types", "SELECT * FROM DimCard", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Iterations)
	assert.InDelta(t, 2.5, result.Median, 0.0001)

	testutil.ExpectationsMet(t, mock)
}

func TestRunClampsIterations(t *testing.T) {
	wh, mock := testutil.MockDB(t)

	mock.ExpectQuery("EXPLAIN ANALYZE").WillReturnRows(
		sqlmock.NewRows([]string{"EXPLAIN"}).
			AddRow("-> scan (actual time=0.1..1.0 rows=1 loops=1)"))

	result, err := Run(context.Background(), wh, "x", "SELECT 1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
}
