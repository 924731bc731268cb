// Package capital computes capital adequacy ratios against Pillar 1 minima
// plus buffers.
package capital

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
	"github.com/bankcalc/regcap/scenario"
)

// Pillar 1 minima.
const (
	MinCET1     = 0.045
	MinTier1    = 0.060
	MinTotal    = 0.080
	MinLeverage = 0.030
)

// Ratio is one capital ratio compared against its requirement. Surplus is
// signed: negative means a breach. SurplusAmount is the same surplus expressed
// in currency (requirement applied to the denominator), rounded to cents.
type Ratio struct {
	Name          string
	Value         float64
	Requirement   float64
	SurplusPoints float64
	SurplusAmount decimal.Decimal
}

// Result holds the four regulatory ratios.
type Result struct {
	CET1     Ratio
	Tier1    Ratio
	Total    Ratio
	Leverage Ratio
	RWATotal float64
}

// Ratios computes CET1/Tier1/Total/Leverage ratios. RWA (or leverage
// exposure) of zero is a CalculationError: a ratio over an empty denominator
// is meaningless and must not silently divide.
func Ratios(base portfolio.CapitalBase, rwaTotal float64, buffers scenario.Buffers) (Result, error) {
	if rwaTotal <= 0 || math.IsNaN(rwaTotal) || math.IsInf(rwaTotal, 0) {
		return Result{}, regerr.Calc("capital.ratios", "RWA total %g is not a valid denominator", rwaTotal)
	}
	if base.LeverageExposure <= 0 {
		return Result{}, regerr.Calc("capital.leverage_ratio", "leverage exposure %g is not a valid denominator", base.LeverageExposure)
	}

	buffered := buffers.Total()
	res := Result{
		CET1:     makeRatio("cet1", base.CET1, rwaTotal, MinCET1+buffered),
		Tier1:    makeRatio("tier1", base.Tier1(), rwaTotal, MinTier1+buffered),
		Total:    makeRatio("total", base.TotalCapital(), rwaTotal, MinTotal+buffered),
		Leverage: makeRatio("leverage", base.Tier1(), base.LeverageExposure, MinLeverage),
		RWATotal: rwaTotal,
	}
	return res, nil
}

func makeRatio(name string, numerator, denominator, requirement float64) Ratio {
	value := numerator / denominator
	surplus := value - requirement

	// Currency surplus: capital held minus capital required, cent-exact.
	num := decimal.NewFromFloat(numerator)
	required := decimal.NewFromFloat(denominator).Mul(decimal.NewFromFloat(requirement))
	amount := num.Sub(required).Round(2)

	return Ratio{
		Name:          name,
		Value:         value,
		Requirement:   requirement,
		SurplusPoints: surplus,
		SurplusAmount: amount,
	}
}
