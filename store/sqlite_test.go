package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcalc/regcap/capital"
	"github.com/bankcalc/regcap/cva"
	"github.com/bankcalc/regcap/ecl"
	"github.com/bankcalc/regcap/engine"
	"github.com/bankcalc/regcap/liquidity"
	"github.com/bankcalc/regcap/rwa"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "regcap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRunResult() *engine.RunResult {
	return &engine.RunResult{
		RunID:      "RUN-1",
		ParamsHash: "abc123",
		Standardized: []rwa.Result{
			{ExposureID: "E-001", RWA: 950_000},
			{ExposureID: "E-002", RWA: 133_000},
		},
		IRB: []rwa.IRBResult{
			{ExposureID: "E-001", RWA: 710_500},
		},
		ECL: []ecl.Result{
			{ExposureID: "E-001", Stage: 1, ECLAmount: 8_550},
			{ExposureID: "E-002", Stage: 2, ECLAmount: 4_100},
		},
		LCR:        liquidity.LCRResult{HQLA: 1_000_000, NetOutflows: 900_000, Ratio: 1.111},
		NSFR:       liquidity.NSFRResult{ASF: 2_000_000, RSF: 1_500_000, Ratio: 1.333},
		CVACapital: cva.CapitalResult{KCVA: 12_345},
		Capital: capital.Result{
			CET1:     capital.Ratio{Name: "cet1_ratio", Value: 0.12},
			Tier1:    capital.Ratio{Name: "tier1_ratio", Value: 0.14},
			Total:    capital.Ratio{Name: "total_capital_ratio", Value: 0.17},
			Leverage: capital.Ratio{Name: "leverage_ratio", Value: 0.06},
		},
		RWATotal: 1_083_000,
		ECLTotal: 12_650,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for _, table := range []string{"runs", "metrics", "exposure_results"} {
		var name string
		err := s.db.QueryRow(`
			SELECT name FROM sqlite_master
			WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.SaveRun(testRunResult(), "pf-hash"))

	info, err := s.GetRun("RUN-1")
	require.NoError(t, err)
	assert.Equal(t, "RUN-1", info.RunID)
	assert.Equal(t, "abc123", info.ParamsHash)
	assert.Equal(t, "pf-hash", info.PortfolioHash)
	assert.False(t, info.CreatedAt.IsZero())

	_, err = s.GetRun("NOPE")
	assert.Error(t, err)
}

func TestSaveRunOverwrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.SaveRun(testRunResult(), "pf-hash"))

	res := testRunResult()
	res.RWATotal = 2_000_000
	require.NoError(t, s.SaveRun(res, "pf-hash-2"))

	info, err := s.GetRun("RUN-1")
	require.NoError(t, err)
	assert.Equal(t, "pf-hash-2", info.PortfolioHash)

	metrics, err := s.Metrics("RUN-1")
	require.NoError(t, err)
	byName := map[string]float64{}
	for _, m := range metrics {
		byName[m.Name] = m.Value
	}
	assert.InDelta(t, 2_000_000, byName["rwa_total_standardized"], 1e-9)
}

func TestMetricsRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	res := testRunResult()
	require.NoError(t, s.SaveRun(res, "pf-hash"))

	metrics, err := s.Metrics("RUN-1")
	require.NoError(t, err)
	assert.Len(t, metrics, len(res.Metrics()))

	byName := map[string]float64{}
	for _, m := range metrics {
		byName[m.Name] = m.Value
	}
	assert.InDelta(t, 12_650, byName["ecl_total"], 1e-9)
	assert.InDelta(t, 1.111, byName["lcr"], 1e-9)
	assert.InDelta(t, 12_345, byName["cva_capital"], 1e-9)
}

func TestExposureValues(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.SaveRun(testRunResult(), "pf-hash"))

	std, err := s.ExposureValues("RUN-1", "rwa_standardized")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"E-001": 950_000, "E-002": 133_000}, std)

	eclVals, err := s.ExposureValues("RUN-1", "ecl")
	require.NoError(t, err)
	assert.InDelta(t, 8_550, eclVals["E-001"], 1e-9)

	none, err := s.ExposureValues("RUN-1", "unknown_engine")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCacheHit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.SaveRun(testRunResult(), "pf-hash"))

	hit, err := s.CacheHit("RUN-1", "abc123", "pf-hash")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = s.CacheHit("RUN-1", "abc123", "other-portfolio")
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = s.CacheHit("UNKNOWN", "abc123", "pf-hash")
	require.NoError(t, err)
	assert.False(t, hit)
}
