package etl

import (
	"context"
	"database/sql"
	"time"

	"finwarehouse/internal/db"
	"finwarehouse/internal/schema"
	"finwarehouse/internal/ui"
	"finwarehouse/internal/validate"
	"finwarehouse/pkg/errors"
	"finwarehouse/pkg/models"
)

// State tracks pipeline progress. Transitions are linear; Failed is terminal
// and reachable from any step.
type State int

const (
	StateUninitialized State = iota
	StateSchemaReset
	StateDimensionsLoaded
	StateFactsLoaded
	StateValidated
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSchemaReset:
		return "schema reset"
	case StateDimensionsLoaded:
		return "dimensions loaded"
	case StateFactsLoaded:
		return "facts loaded"
	case StateValidated:
		return "validated"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Summary reports a completed run: per-table load results including drop
// counts, the validation report, and elapsed time.
type Summary struct {
	Results []LoadResult
	Report  *validate.Report
	Elapsed time.Duration
}

// opener abstracts connection acquisition so the phase loop can run against
// injected databases in tests.
type opener interface {
	OpenSource(ctx context.Context) (*sql.DB, error)
	OpenWarehouse(ctx context.Context) (*sql.DB, error)
}

// Pipeline sequences a full warehouse rebuild. A run is strictly sequential
// and assumes exclusive single-writer access to the warehouse; a rerun
// unconditionally drops and rebuilds every table.
type Pipeline struct {
	cfg    *models.Config
	opener opener
	state  State
}

func NewPipeline(cfg *models.Config) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		opener: db.NewConnector(cfg),
		state:  StateUninitialized,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// runState carries the connections and lookup maps across phases. Dimension
// loaders populate the maps; dependent loaders receive them as parameters so
// the ordering dependency is visible in the phase table, not hidden behind
// warehouse round-trips.
type runState struct {
	dates    DateMap
	accounts AccountMap
	summary  *Summary
}

// phase is one step of the run. The ordered list in Run is the authoritative
// phase graph: ClientAccount depends on Date, Card on ClientAccount and Date,
// every fact on both maps. Fact order among themselves is not load-bearing.
type phase struct {
	name  string
	after State
	run   func(ctx context.Context) error
}

// Run executes the pipeline to completion. On any phase failure the state
// becomes Failed, remaining phases are skipped and the error is returned.
// Both connections are closed on every exit path.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	src, err := p.opener.OpenSource(ctx)
	if err != nil {
		p.state = StateFailed
		return nil, err
	}
	defer src.Close()

	wh, err := p.opener.OpenWarehouse(ctx)
	if err != nil {
		p.state = StateFailed
		return nil, err
	}
	defer wh.Close()

	rs := &runState{summary: &Summary{}}
	record := func(r LoadResult) {
		rs.summary.Results = append(rs.summary.Results, r)
	}

	phases := []phase{
		{"Resetting warehouse schema", StateSchemaReset, func(ctx context.Context) error {
			return schema.Reset(ctx, wh, p.cfg.Schema.DDLFile)
		}},
		{"Loading DimDate", StateSchemaReset, func(ctx context.Context) error {
			result, dates, err := LoadDates(ctx, src, wh)
			if err != nil {
				return err
			}
			rs.dates = dates
			record(result)
			return nil
		}},
		{"Loading DimDistrict", StateSchemaReset, func(ctx context.Context) error {
			result, err := LoadDistricts(ctx, src, wh)
			if err != nil {
				return err
			}
			record(result)
			return nil
		}},
		{"Loading DimClientAccount", StateSchemaReset, func(ctx context.Context) error {
			result, accounts, err := LoadClientAccounts(ctx, src, wh, rs.dates)
			if err != nil {
				return err
			}
			rs.accounts = accounts
			record(result)
			return nil
		}},
		{"Loading DimCard", StateDimensionsLoaded, func(ctx context.Context) error {
			result, err := LoadCards(ctx, src, wh, rs.dates, rs.accounts)
			if err != nil {
				return err
			}
			record(result)
			return nil
		}},
		{"Loading FactTrans", StateDimensionsLoaded, func(ctx context.Context) error {
			result, err := LoadTransactions(ctx, src, wh, rs.dates, rs.accounts)
			if err != nil {
				return err
			}
			record(result)
			return nil
		}},
		{"Loading FactLoan", StateDimensionsLoaded, func(ctx context.Context) error {
			result, err := LoadLoans(ctx, src, wh, rs.dates, rs.accounts)
			if err != nil {
				return err
			}
			record(result)
			return nil
		}},
		{"Loading FactOrder", StateFactsLoaded, func(ctx context.Context) error {
			result, err := LoadOrders(ctx, src, wh, rs.accounts)
			if err != nil {
				return err
			}
			record(result)
			return nil
		}},
		{"Validating data quality", StateValidated, func(ctx context.Context) error {
			report, err := validate.Run(ctx, wh)
			if err != nil {
				return err
			}
			rs.summary.Report = report
			return nil
		}},
	}

	for _, ph := range phases {
		ui.ShowPhase(ph.name)
		if err := ph.run(ctx); err != nil {
			p.state = StateFailed
			return nil, errors.Wrap(err, errors.GetErrorCode(err), "pipeline failed during: "+ph.name).
				WithContext("phase", ph.name)
		}
		p.state = ph.after
	}

	p.state = StateComplete
	rs.summary.Elapsed = time.Since(start)
	return rs.summary, nil
}
