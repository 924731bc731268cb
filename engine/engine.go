// Package engine orchestrates the individual calculation engines over one
// immutable portfolio snapshot and one frozen parameter set.
package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bankcalc/regcap/capital"
	"github.com/bankcalc/regcap/cva"
	"github.com/bankcalc/regcap/ecl"
	"github.com/bankcalc/regcap/liquidity"
	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
	"github.com/bankcalc/regcap/rwa"
	"github.com/bankcalc/regcap/saccr"
	"github.com/bankcalc/regcap/scenario"
)

// MaxReportedRowErrors caps how many invalid rows a run surfaces.
const MaxReportedRowErrors = 20

// RunInput is everything a calculation run consumes. Nothing is read from
// ambient state; two identical inputs produce bit-identical results.
type RunInput struct {
	RunID     string
	Exposures []portfolio.Exposure
	Capital   portfolio.CapitalBase
	Params    *scenario.Parameters
}

// RunResult bundles every engine's output for one run.
type RunResult struct {
	RunID      string
	ParamsHash string

	Standardized []rwa.Result
	IRB          []rwa.IRBResult
	SACCR        []saccr.NettingSetResult
	CVACapital   cva.CapitalResult
	CVAPricing   []cva.PricingResult
	CVAReport    []cva.ReportRow
	LCR          liquidity.LCRResult
	NSFR         liquidity.NSFRResult
	Capital      capital.Result
	ECL          []ecl.Result

	RWATotal float64
	ECLTotal float64

	// Invalid rows dropped in lenient mode, capped at MaxReportedRowErrors;
	// RowErrorCount carries the uncapped total.
	RowErrors     []regerr.RowError
	RowErrorCount int
}

// Engine runs all calculators. Zero value is not usable; construct with New.
type Engine struct {
	log *zap.Logger
	// chunkSize bounds the per-worker slice for the per-exposure engines.
	chunkSize int
}

// New returns an Engine logging through log (zap.NewNop is fine for tests).
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, chunkSize: 512}
}

// Run validates the portfolio once at the boundary, fans the per-exposure
// engines out across workers, and merges everything in fixed exposure-id
// order so floating-point sums are reproducible run to run.
func (en *Engine) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	if in.Params == nil {
		return nil, regerr.Config("params", "missing")
	}
	if err := in.Params.Validate(); err != nil {
		return nil, err
	}

	hash, err := ParamsHash(in.Params)
	if err != nil {
		return nil, err
	}

	valid, bad, err := portfolio.ValidateAll(in.Exposures, in.Params.Mode)
	if err != nil {
		return nil, err
	}
	en.log.Info("run started",
		zap.String("run_id", in.RunID),
		zap.Int("exposures", len(valid)),
		zap.Int("rejected", len(bad)),
		zap.String("params_hash", hash),
	)

	res := &RunResult{
		RunID:         in.RunID,
		ParamsHash:    hash,
		RowErrorCount: len(bad),
	}
	if len(bad) > MaxReportedRowErrors {
		bad = bad[:MaxReportedRowErrors]
	}
	res.RowErrors = bad

	// Per-exposure engines fan out over chunks; netting-set and aggregate
	// engines run alongside. ValidateAll already sorted by exposure id, so
	// chunk boundaries and merge order are deterministic.
	g, _ := errgroup.WithContext(ctx)

	var (
		stdChunks = make([][]rwa.Result, numChunks(len(valid), en.chunkSize))
		irbChunks = make([][]rwa.IRBResult, numChunks(len(valid), en.chunkSize))
		eclChunks = make([][]ecl.Result, numChunks(len(valid), en.chunkSize))
	)
	for i, chunk := range chunks(valid, en.chunkSize) {
		i, chunk := i, chunk
		g.Go(func() error {
			std, err := rwa.Standardized(chunk)
			if err != nil {
				return err
			}
			stdChunks[i] = std

			irb, err := rwa.IRB(chunk)
			if err != nil {
				return err
			}
			irbChunks[i] = irb

			ec, err := ecl.Compute(chunk, in.Params)
			if err != nil {
				return err
			}
			eclChunks[i] = ec
			return nil
		})
	}

	g.Go(func() error {
		sets, err := saccr.Compute(valid, in.Params.Alpha)
		if err != nil {
			return err
		}
		res.SACCR = sets
		return nil
	})
	g.Go(func() error {
		lcr, err := liquidity.LCR(valid)
		if err != nil {
			return err
		}
		res.LCR = lcr
		nsfr, err := liquidity.NSFR(valid)
		if err != nil {
			return err
		}
		res.NSFR = nsfr
		return nil
	})

	if err := g.Wait(); err != nil {
		en.log.Error("run failed", zap.String("run_id", in.RunID), zap.Error(err))
		return nil, err
	}

	for _, c := range stdChunks {
		res.Standardized = append(res.Standardized, c...)
	}
	for _, c := range irbChunks {
		res.IRB = append(res.IRB, c...)
	}
	for _, c := range eclChunks {
		res.ECL = append(res.ECL, c...)
	}

	// CVA depends on SA-CCR output and runs after the join.
	worstPD := worstPDByCounterparty(valid)
	counterparties := cva.Aggregate(res.SACCR, worstPD)
	capRes, err := cva.Capital(counterparties)
	if err != nil {
		return nil, err
	}
	res.CVACapital = capRes
	if in.Params.IncludeCVAPricing {
		pricing, err := cva.Pricing(counterparties, in.Params)
		if err != nil {
			return nil, err
		}
		res.CVAPricing = pricing
	}
	res.CVAReport = cva.Report(counterparties, res.CVAPricing)

	res.RWATotal = rwa.TotalRWA(res.Standardized)
	res.ECLTotal = ecl.TotalECL(res.ECL)

	ratios, err := capital.Ratios(in.Capital, res.RWATotal, in.Params.CapitalBuffers)
	if err != nil {
		return nil, err
	}
	res.Capital = ratios

	en.log.Info("run complete",
		zap.String("run_id", in.RunID),
		zap.Float64("rwa_total", res.RWATotal),
		zap.Float64("ecl_total", res.ECLTotal),
		zap.Float64("lcr", res.LCR.Ratio),
		zap.Float64("nsfr", res.NSFR.Ratio),
	)
	return res, nil
}

// worstPDByCounterparty tracks the highest PD seen per counterparty, the
// conservative input for the BA-CVA quality bucket.
func worstPDByCounterparty(exposures []portfolio.Exposure) map[string]float64 {
	out := map[string]float64{}
	for _, e := range exposures {
		if e.PD > out[e.CounterpartyID] {
			out[e.CounterpartyID] = e.PD
		}
	}
	return out
}

func numChunks(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}

func chunks(exposures []portfolio.Exposure, size int) [][]portfolio.Exposure {
	var out [][]portfolio.Exposure
	for start := 0; start < len(exposures); start += size {
		end := start + size
		if end > len(exposures) {
			end = len(exposures)
		}
		out = append(out, exposures[start:end])
	}
	return out
}

// Metric is one named headline figure of a run, the form the result store
// and CLI consume.
type Metric struct {
	Name  string
	Value float64
}

// Metrics flattens the aggregate results. Order is fixed so persisted runs
// diff cleanly.
func (r *RunResult) Metrics() []Metric {
	return []Metric{
		{"rwa_total_standardized", r.RWATotal},
		{"rwa_total_irb", rwa.TotalIRBRWA(r.IRB)},
		{"saccr_ead_total", saccr.TotalEAD(r.SACCR)},
		{"cva_capital", r.CVACapital.KCVA},
		{"lcr", r.LCR.Ratio},
		{"lcr_hqla", r.LCR.HQLA},
		{"lcr_net_outflows", r.LCR.NetOutflows},
		{"nsfr", r.NSFR.Ratio},
		{"nsfr_asf", r.NSFR.ASF},
		{"nsfr_rsf", r.NSFR.RSF},
		{"cet1_ratio", r.Capital.CET1.Value},
		{"tier1_ratio", r.Capital.Tier1.Value},
		{"total_capital_ratio", r.Capital.Total.Value},
		{"leverage_ratio", r.Capital.Leverage.Value},
		{"ecl_total", r.ECLTotal},
	}
}
