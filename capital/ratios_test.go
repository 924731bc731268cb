package capital

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
	"github.com/bankcalc/regcap/scenario"
)

func base() portfolio.CapitalBase {
	return portfolio.CapitalBase{
		CET1:             80_000_000,
		AdditionalTier1:  20_000_000,
		Tier2:            25_000_000,
		LeverageExposure: 2_000_000_000,
	}
}

func buffers() scenario.Buffers {
	return scenario.Buffers{Conservation: 0.025, Countercyclical: 0.01, Systemic: 0.0}
}

func TestRatios(t *testing.T) {
	t.Parallel()

	res, err := Ratios(base(), 1_000_000_000, buffers())
	require.NoError(t, err)

	assert.InDelta(t, 0.080, res.CET1.Value, 1e-12)
	assert.InDelta(t, 0.100, res.Tier1.Value, 1e-12)
	assert.InDelta(t, 0.125, res.Total.Value, 1e-12)
	assert.InDelta(t, 0.050, res.Leverage.Value, 1e-12)

	// Requirements: minimum + combined buffer (3.5 points), leverage without buffers.
	assert.InDelta(t, 0.045+0.035, res.CET1.Requirement, 1e-12)
	assert.InDelta(t, 0.060+0.035, res.Tier1.Requirement, 1e-12)
	assert.InDelta(t, 0.080+0.035, res.Total.Requirement, 1e-12)
	assert.InDelta(t, 0.030, res.Leverage.Requirement, 1e-12)

	// CET1 surplus: 8.0% held vs 8.0% required -> zero points and cents.
	assert.InDelta(t, 0.0, res.CET1.SurplusPoints, 1e-12)
	assert.True(t, res.CET1.SurplusAmount.Equal(decimal.Zero),
		"got %s", res.CET1.SurplusAmount)

	// Tier1 surplus: 10.0% vs 9.5% on 1bn RWA = 5,000,000.
	assert.InDelta(t, 0.005, res.Tier1.SurplusPoints, 1e-12)
	assert.True(t, res.Tier1.SurplusAmount.Equal(decimal.RequireFromString("5000000")),
		"got %s", res.Tier1.SurplusAmount)
}

func TestRatiosDeficitIsSigned(t *testing.T) {
	t.Parallel()

	thin := base()
	thin.CET1 = 30_000_000
	res, err := Ratios(thin, 1_000_000_000, buffers())
	require.NoError(t, err)

	assert.Negative(t, res.CET1.SurplusPoints)
	assert.True(t, res.CET1.SurplusAmount.IsNegative())
	// 3.0% held vs 8.0% required on 1bn = -50,000,000.
	assert.True(t, res.CET1.SurplusAmount.Equal(decimal.RequireFromString("-50000000")),
		"got %s", res.CET1.SurplusAmount)
}

func TestRatiosZeroRWARefuses(t *testing.T) {
	t.Parallel()

	_, err := Ratios(base(), 0, buffers())
	require.Error(t, err)
	var ce *regerr.CalculationError
	assert.ErrorAs(t, err, &ce)
}

func TestRatiosZeroLeverageExposureRefuses(t *testing.T) {
	t.Parallel()

	b := base()
	b.LeverageExposure = 0
	_, err := Ratios(b, 1_000_000_000, buffers())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leverage")
}
