// Package etl implements the extract-transform-load pipeline that rebuilds
// the financial warehouse star schema from the operational source database.
package etl

// LoadResult reports the outcome of one loader. Dropped counts rows excluded
// by policy (unparseable dates, facts without an owning client-account) so
// silent data loss stays observable in the run summary.
type LoadResult struct {
	Table   string
	Loaded  int
	Dropped int
}

// DateMap resolves an ISO calendar date (YYYY-MM-DD) to its DimDate surrogate
// key. Built once when the Date dimension loads, or rebuilt from the
// warehouse for standalone invocations.
type DateMap map[string]int

// AccountMap resolves a natural account id to its DimClientAccount surrogate
// key. Only OWNER-linked accounts appear; facts for other accounts are
// dropped by design.
type AccountMap map[int]int

// defaultDateID is the surrogate used when a source date is absent or does
// not resolve against the Date dimension. Facts with an unknown date can
// still be counted and summed, just not correctly time-sliced, so they keep
// the sentinel instead of being dropped.
const defaultDateID = 1
