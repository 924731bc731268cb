package ecl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/scenario"
)

func performingLoan() portfolio.Exposure {
	return portfolio.Exposure{
		ExposureID:    "L-1",
		ProductType:   portfolio.ProductLoan,
		Class:         portfolio.ClassCorporate,
		EAD:           1_000_000,
		PD:            0.02,
		LGD:           0.45,
		MaturityYears: 3,
		Stage:         1,
		PDOrigination: 0.018,
	}
}

func TestRestage(t *testing.T) {
	t.Parallel()

	params := scenario.Default()

	tests := []struct {
		name   string
		mutate func(*portfolio.Exposure)
		want   Stage
	}{
		{"performing stays stage 1", func(e *portfolio.Exposure) {}, Stage1},
		{"sicr relative deterioration", func(e *portfolio.Exposure) {
			e.PD = 0.04 // 0.04 / 0.018 > 2.0 threshold
		}, Stage2},
		{"30 dpd backstop", func(e *portfolio.Exposure) { e.DaysPastDue = 30 }, Stage2},
		{"90 dpd backstop", func(e *portfolio.Exposure) { e.DaysPastDue = 90 }, Stage3},
		{"default event", func(e *portfolio.Exposure) { e.Defaulted = true }, Stage3},
		{"no origination pd disables relative trigger", func(e *portfolio.Exposure) {
			e.PDOrigination = 0
			e.PD = 0.5
		}, Stage1},
		{"stage 2 cures to 1 when clean", func(e *portfolio.Exposure) {
			e.Stage = 2
			e.DaysPastDue = 0
		}, Stage1},
		{"stage 2 held by partial arrears", func(e *portfolio.Exposure) {
			e.Stage = 2
			e.DaysPastDue = 15 // below backstop, but not clean
		}, Stage2},
		{"stage 2 held by sicr", func(e *portfolio.Exposure) {
			e.Stage = 2
			e.PD = 0.05
		}, Stage2},
		{"stage 3 cures one notch", func(e *portfolio.Exposure) {
			e.Stage = 3
			e.Defaulted = false
			e.DaysPastDue = 0
		}, Stage2},
		{"stage 3 held by default flag", func(e *portfolio.Exposure) {
			e.Stage = 3
			e.Defaulted = true
		}, Stage3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := performingLoan()
			tt.mutate(&e)
			assert.Equal(t, tt.want, Restage(e, params))
		})
	}
}

func TestPDCurve(t *testing.T) {
	t.Parallel()

	c := NewPDCurve(0.05, 60)

	// Constant hazard is exact at the 12-month point.
	assert.InDelta(t, 0.05, c.PD12M(), 1e-12)

	// Marginals over the horizon sum to the cumulative.
	var sum float64
	for m := 1; m <= 36; m++ {
		sum += c.Marginal(m)
	}
	assert.InDelta(t, c.Cumulative(36), sum, 1e-12)

	// Cumulative is flat beyond the horizon clamp.
	assert.InDelta(t, c.Cumulative(60), c.Cumulative(120), 1e-15)
}

func TestComputeStage1UsesTwelveMonths(t *testing.T) {
	t.Parallel()

	params := scenario.Default()
	long := performingLoan()
	long.MaturityYears = 5

	short := long
	short.ExposureID = "L-2"

	results, err := Compute([]portfolio.Exposure{long}, params)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Stage1, results[0].Stage)

	// Forcing stage 2 on the same row must produce a larger (lifetime) loss.
	short.Stage = 2
	short.DaysPastDue = 15 // keeps it in stage 2 under the cure gate
	s2, err := Compute([]portfolio.Exposure{short}, params)
	require.NoError(t, err)
	assert.Greater(t, s2[0].ECLAmount, results[0].ECLAmount)
	assert.Greater(t, s2[0].PDLifetime, s2[0].PD12M)
}

func TestComputeStage3IsLGDTimesEAD(t *testing.T) {
	t.Parallel()

	params := scenario.Default()
	e := performingLoan()
	e.Defaulted = true

	results, err := Compute([]portfolio.Exposure{e}, params)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Stage3, results[0].Stage)
	// Floored LGD (corporate floor 0.25 < 0.45) times full current balance.
	assert.InDelta(t, 0.45*1_000_000, results[0].ECLAmount, 1e-6)
}

func TestComputeAppliesLGDDownturnFloor(t *testing.T) {
	t.Parallel()

	params := scenario.Default()
	e := performingLoan()
	e.LGD = 0.05 // below the corporate floor of 0.25

	results, err := Compute([]portfolio.Exposure{e}, params)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, results[0].LGD, 1e-12)
}

func TestComputeBoundaryNeverNaN(t *testing.T) {
	t.Parallel()

	// The adversarial boundary fixture: PD at the top of its domain, full
	// loss severity, zero exposure. ECL must be exactly zero, not NaN.
	params := scenario.Default()
	e := performingLoan()
	e.PD = 0.9999
	e.LGD = 1.0
	e.EAD = 0

	results, err := Compute([]portfolio.Exposure{e}, params)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].ECLAmount)
	assert.False(t, math.IsNaN(results[0].ECLAmount))
}

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()

	params := scenario.Default()
	exposures := []portfolio.Exposure{performingLoan()}
	e2 := performingLoan()
	e2.ExposureID = "L-2"
	e2.PD = 0.07
	e2.Stage = 2
	e2.DaysPastDue = 40
	exposures = append(exposures, e2)

	first, err := Compute(exposures, params)
	require.NoError(t, err)
	second, err := Compute(exposures, params)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		// Bit-identical, not merely close.
		assert.Equal(t, first[i].ECLAmount, second[i].ECLAmount)
	}
}

func TestComputeSkipsEquity(t *testing.T) {
	t.Parallel()

	params := scenario.Default()
	eq := portfolio.Exposure{
		ExposureID: "EQ-1", ProductType: portfolio.ProductEquity,
		Class: portfolio.ClassEquity, PD: 0.02, LGD: 0.9, EAD: 100, Stage: 1,
	}
	results, err := Compute([]portfolio.Exposure{eq}, params)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProjectedEADAmortizes(t *testing.T) {
	t.Parallel()

	e := performingLoan() // 36-month amortizing balance
	assert.InDelta(t, 1_000_000.0, projectedEAD(e, 0, 36), 1e-9)
	assert.InDelta(t, 500_000.0, projectedEAD(e, 18, 36), 1e-9)
	assert.Zero(t, projectedEAD(e, 36, 36))

	bond := e
	bond.ProductType = portfolio.ProductBond
	assert.InDelta(t, 1_000_000.0, projectedEAD(bond, 18, 36), 1e-9)

	fac := e
	fac.ProductType = portfolio.ProductOffBalance
	fac.EAD = 0
	fac.CCF = 0.4
	fac.OffBalanceAmount = 500_000
	assert.InDelta(t, 200_000.0, projectedEAD(fac, 6, 36), 1e-9)
}
