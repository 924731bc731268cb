package rwa

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

// PD is clamped into this closed interval before the capital formula is
// evaluated. The clamp is part of the contract, not a silent fixup: values
// outside (0,1) never reach this point (rejected at validation), the clamp
// only guards the quantile function's tails.
const (
	PDFloor = 1e-4
	PDCap   = 0.9999
)

// Confidence level of the supervisory capital formula.
const confidenceLevel = 0.999

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// IRBResult is the internal-ratings-based output for one exposure.
type IRBResult struct {
	ExposureID  string
	Correlation float64
	MaturityAdj float64
	K           float64 // capital requirement per unit EAD
	EAD         float64
	RWA         float64
}

// Correlation computes the supervisory asset correlation R for an exposure.
// Retail mortgages and qualifying revolving retail use fixed values; other
// retail and corporates use the PD-dependent exponential interpolations, with
// the firm-size adjustment for SME corporates.
func Correlation(e portfolio.Exposure) float64 {
	pd := clampPD(e.PD)
	switch e.Class {
	case portfolio.ClassRetailMortgage:
		return 0.15
	case portfolio.ClassRetailRevolving:
		return 0.04
	case portfolio.ClassRetail:
		w := (1 - math.Exp(-35*pd)) / (1 - math.Exp(-35))
		return 0.03*w + 0.16*(1-w)
	default:
		w := (1 - math.Exp(-50*pd)) / (1 - math.Exp(-50))
		r := 0.12*w + 0.24*(1-w)
		if e.Class == portfolio.ClassCorporateSME {
			// Firm-size adjustment: turnover S in EUR millions, clamped to [5,50].
			s := e.AnnualTurnoverM
			if s <= 0 {
				s = 50 // unknown size gets no reduction
			}
			s = math.Min(50, math.Max(5, s))
			r -= 0.04 * (1 - (s-5)/45)
		}
		return r
	}
}

// MaturityAdjustment computes the supervisory maturity adjustment. Retail
// exposures are exempt. M is clamped to [1,5] years.
func MaturityAdjustment(e portfolio.Exposure) float64 {
	if e.IsRetail() {
		return 1.0
	}
	return MaturityAdj(e.PD, e.MaturityYears)
}

// MaturityAdj is the raw maturity adjustment for a non-retail exposure with
// the given PD and maturity in years.
func MaturityAdj(pd, m float64) float64 {
	pd = clampPD(pd)
	m = math.Min(5, math.Max(1, m))
	b := math.Pow(0.11852-0.05478*math.Log(pd), 2)
	return (1 + (m-2.5)*b) / (1 - 1.5*b)
}

// Density returns the IRB RWA per unit of EAD for the given risk parameters.
func Density(pd, lgd, r, m float64) (float64, error) {
	k, err := CapitalK(pd, lgd, r)
	if err != nil {
		return 0, err
	}
	return k * MaturityAdj(pd, m) * 12.5, nil
}

// CapitalK evaluates the single-factor Vasicek capital requirement for given
// PD, LGD and correlation R:
//
//	K = LGD*Phi( PhiInv(PD)/sqrt(1-R) + sqrt(R/(1-R))*PhiInv(0.999) ) - PD*LGD
//
// Returns a CalculationError if the result is not finite.
func CapitalK(pd, lgd, r float64) (float64, error) {
	pd = clampPD(pd)
	if r <= 0 || r >= 1 {
		return 0, regerr.Calc("irb.capital", "correlation %g outside (0,1)", r)
	}
	q := stdNormal.Quantile(pd)
	qTail := stdNormal.Quantile(confidenceLevel)
	cond := stdNormal.CDF(q/math.Sqrt(1-r) + math.Sqrt(r/(1-r))*qTail)
	k := lgd*cond - pd*lgd
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0, regerr.Calc("irb.capital", "non-finite K for pd=%g lgd=%g r=%g", pd, lgd, r)
	}
	if k < 0 {
		k = 0
	}
	return k, nil
}

// IRB computes correlation, maturity adjustment and risk-weighted amount for
// all IRB-eligible exposures in one pass. Equity exposures are out of scope
// for the IRB formula and are skipped.
func IRB(exposures []portfolio.Exposure) ([]IRBResult, error) {
	out := make([]IRBResult, 0, len(exposures))
	for _, e := range exposures {
		if e.Class == portfolio.ClassEquity {
			continue
		}

		r := Correlation(e)
		k, err := CapitalK(e.PD, e.LGD, r)
		if err != nil {
			return nil, err
		}
		ma := MaturityAdjustment(e)
		if math.IsNaN(ma) || math.IsInf(ma, 0) || ma <= 0 {
			return nil, regerr.Calc("irb.maturity_adjustment", "non-finite adjustment for exposure %s", e.ExposureID)
		}

		ead := EAD(e)
		rwa := k * ma * 12.5 * ead
		if math.IsNaN(rwa) || math.IsInf(rwa, 0) {
			return nil, regerr.Calc("irb.rwa", "non-finite RWA for exposure %s", e.ExposureID)
		}

		out = append(out, IRBResult{
			ExposureID:  e.ExposureID,
			Correlation: r,
			MaturityAdj: ma,
			K:           k * ma,
			EAD:         ead,
			RWA:         rwa,
		})
	}
	return out, nil
}

// TotalIRBRWA sums IRB results.
func TotalIRBRWA(results []IRBResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.RWA
	}
	return sum
}

func clampPD(pd float64) float64 {
	return math.Min(PDCap, math.Max(PDFloor, pd))
}
