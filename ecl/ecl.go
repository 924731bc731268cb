package ecl

import (
	"math"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
	"github.com/bankcalc/regcap/scenario"
)

// Result is the per-exposure ECL output. ECLAmount is never NaN: any input
// combination that would produce one fails the computation instead.
type Result struct {
	ExposureID string
	Stage      Stage
	PD12M      float64
	PDLifetime float64
	LGD        float64 // after downturn floor
	ECLAmount  float64
}

// Compute stages every exposure and computes its expected credit loss in one
// pass. Equity positions carry no ECL and are skipped.
func Compute(exposures []portfolio.Exposure, params *scenario.Parameters) ([]Result, error) {
	out := make([]Result, 0, len(exposures))
	for _, e := range exposures {
		if e.ProductType == portfolio.ProductEquity {
			continue
		}
		r, err := computeOne(e, params)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func computeOne(e portfolio.Exposure, params *scenario.Parameters) (Result, error) {
	stage := Restage(e, params)
	lgd := flooredLGD(e, params)
	curve := NewPDCurve(e.PD, params.PDCurveHorizonMonths)

	remaining := remainingMonths(e, params)

	var amount float64
	switch stage {
	case Stage3:
		// Credit-impaired: default has happened, PD=1, no discounting window.
		amount = lgd * projectedEAD(e, 0, remaining)
	case Stage2:
		amount = expectedLoss(e, curve, lgd, remaining, params.RiskFreeRate)
	default:
		horizon := remaining
		if horizon > 12 {
			horizon = 12
		}
		amount = expectedLoss(e, curve, lgd, horizon, params.RiskFreeRate)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Result{}, regerr.Calc("ecl.amount", "non-finite ECL for exposure %s", e.ExposureID)
	}
	if amount < 0 {
		return Result{}, regerr.Calc("ecl.amount", "negative ECL %g for exposure %s", amount, e.ExposureID)
	}

	return Result{
		ExposureID: e.ExposureID,
		Stage:      stage,
		PD12M:      curve.PD12M(),
		PDLifetime: curve.Cumulative(remaining),
		LGD:        lgd,
		ECLAmount:  amount,
	}, nil
}

// expectedLoss sums marginal PD * LGD * discounted projected EAD over the
// horizon in months.
func expectedLoss(e portfolio.Exposure, curve PDCurve, lgd float64, months int, riskFree float64) float64 {
	var sum float64
	for t := 1; t <= months; t++ {
		mpd := curve.Marginal(t)
		if mpd == 0 {
			continue
		}
		df := math.Exp(-riskFree * float64(t) / 12)
		sum += mpd * lgd * df * projectedEAD(e, t, months)
	}
	return sum
}

// projectedEAD returns the exposure balance expected at month t.
// Amortizing loans decline linearly to zero at final maturity; off-balance
// commitments draw at their CCF; bonds and everything else hold a bullet
// profile.
func projectedEAD(e portfolio.Exposure, t, horizon int) float64 {
	switch e.ProductType {
	case portfolio.ProductLoan:
		total := int(math.Round(e.MaturityYears * 12))
		if total <= 0 {
			return e.EAD
		}
		if t >= total {
			return 0
		}
		return e.EAD * (1 - float64(t)/float64(total))
	case portfolio.ProductOffBalance:
		return e.EAD + e.CCF*e.OffBalanceAmount
	default:
		return e.EAD
	}
}

// flooredLGD applies the downturn LGD floor for the exposure's class.
func flooredLGD(e portfolio.Exposure, params *scenario.Parameters) float64 {
	floor := params.LGDDownturnFloorByClass[e.Class]
	return math.Max(e.LGD, floor)
}

// remainingMonths is the integer month horizon to final maturity, clamped to
// the curve horizon and floored at one month.
func remainingMonths(e portfolio.Exposure, params *scenario.Parameters) int {
	m := int(math.Round(e.MaturityYears * 12))
	if m < 1 {
		m = 1
	}
	if m > params.PDCurveHorizonMonths {
		m = params.PDCurveHorizonMonths
	}
	return m
}

// TotalECL sums per-exposure amounts.
func TotalECL(results []Result) float64 {
	var sum float64
	for _, r := range results {
		sum += r.ECLAmount
	}
	return sum
}
