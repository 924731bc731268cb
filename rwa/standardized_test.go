package rwa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

func corpExposure() portfolio.Exposure {
	return portfolio.Exposure{
		ExposureID:  "E-1",
		ProductType: portfolio.ProductLoan,
		Class:       portfolio.ClassCorporate,
		EAD:         1_000_000,
		PD:          0.02,
		LGD:         0.45,
		Stage:       1,
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*portfolio.Exposure)
		class  portfolio.ExposureClass
		weight float64
	}{
		{"sovereign", func(e *portfolio.Exposure) { e.Class = portfolio.ClassSovereign }, portfolio.ClassSovereign, 0.00},
		{"institution", func(e *portfolio.Exposure) { e.Class = portfolio.ClassInstitution }, portfolio.ClassInstitution, 0.30},
		{"corporate", func(e *portfolio.Exposure) {}, portfolio.ClassCorporate, 1.00},
		{"retail", func(e *portfolio.Exposure) { e.Class = portfolio.ClassRetail }, portfolio.ClassRetail, 0.75},
		{"mortgage", func(e *portfolio.Exposure) { e.Class = portfolio.ClassRetailMortgage }, portfolio.ClassRetailMortgage, 0.35},
		{"equity", func(e *portfolio.Exposure) { e.Class = portfolio.ClassEquity }, portfolio.ClassEquity, 2.50},
		{"defaulted flag overrides class", func(e *portfolio.Exposure) { e.Defaulted = true }, portfolio.ClassInDefault, 1.50},
		{"stage 3 overrides class", func(e *portfolio.Exposure) { e.Stage = 3 }, portfolio.ClassInDefault, 1.50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := corpExposure()
			tt.mutate(&e)
			c, err := Classify(e)
			require.NoError(t, err)
			assert.Equal(t, tt.class, c.Class)
			assert.InDelta(t, tt.weight, c.RiskWeight, 1e-12)
		})
	}
}

func TestClassifyUnrecognizedClassFails(t *testing.T) {
	t.Parallel()

	e := corpExposure()
	e.Class = "covered_bond"
	_, err := Classify(e)
	require.Error(t, err)

	var ide *regerr.InvalidDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, "E-1", ide.Row)
}

func TestEADIncludesCCFWeightedOffBalance(t *testing.T) {
	t.Parallel()

	e := corpExposure()
	e.EAD = 800_000
	e.CCF = 0.5
	e.OffBalanceAmount = 400_000
	assert.InDelta(t, 1_000_000.0, EAD(e), 1e-9)
}

func TestStandardized(t *testing.T) {
	t.Parallel()

	e := corpExposure()
	results, err := Standardized([]portfolio.Exposure{e})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1_000_000.0, results[0].RWA, 1e-9)
	assert.InDelta(t, 1_000_000.0, TotalRWA(results), 1e-9)
}

func TestStandardizedProvisionsReduceRWA(t *testing.T) {
	t.Parallel()

	e := corpExposure()
	e.Provisions = 100_000 // 10% of EAD
	results, err := Standardized([]portfolio.Exposure{e})
	require.NoError(t, err)
	assert.InDelta(t, 900_000.0, results[0].RWA, 1e-9)
}

func TestStandardizedSMESupportFactor(t *testing.T) {
	t.Parallel()

	e := corpExposure()
	e.Class = portfolio.ClassCorporateSME
	results, err := Standardized([]portfolio.Exposure{e})
	require.NoError(t, err)
	assert.InDelta(t, 850_000.0, results[0].RWA, 1e-9)
}
