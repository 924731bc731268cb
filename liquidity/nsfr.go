package liquidity

import (
	"math"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

// NSFRResult reports the ratio with its raw components for auditability.
type NSFRResult struct {
	ASF   float64
	RSF   float64
	Ratio float64 // +Inf when nothing requires stable funding
}

// asfFactor maps a funding exposure to its available-stable-funding factor.
func asfFactor(e portfolio.Exposure) float64 {
	if e.ProductType != portfolio.ProductDeposit {
		return 0
	}
	switch {
	case e.IsRetail():
		return 0.90
	case e.MaturityYears >= 1:
		return 1.00
	case e.Class == portfolio.ClassCorporate || e.Class == portfolio.ClassCorporateSME ||
		e.Class == portfolio.ClassSovereign:
		return 0.50
	default:
		return 0 // short-term financial funding
	}
}

// rsfFactor maps an asset exposure to its required-stable-funding factor.
func rsfFactor(e portfolio.Exposure) float64 {
	switch e.ProductType {
	case portfolio.ProductBond:
		switch hqlaTier(e) {
		case 1:
			return 0
		case 2:
			return 0.50
		default:
			return 0.85
		}
	case portfolio.ProductLoan:
		switch {
		case e.Defaulted || e.Stage == 3:
			return 1.00
		case e.Class == portfolio.ClassRetailMortgage && e.MaturityYears >= 1:
			return 0.65
		case e.IsRetail() && e.MaturityYears < 1:
			return 0.50
		case e.MaturityYears < 1:
			return 0.50
		default:
			return 0.85
		}
	case portfolio.ProductDerivative:
		return 1.00
	case portfolio.ProductEquity:
		return 0.85
	case portfolio.ProductOffBalance:
		return 0 // undrawn commitments are weighted on OffBalanceAmount in NSFR
	}
	return 0
}

// NSFR computes the net stable funding ratio. Subtotals are exact weighted
// sums of the inputs; the only rounding is float64 arithmetic itself.
func NSFR(exposures []portfolio.Exposure) (NSFRResult, error) {
	var asf, rsf float64
	for _, e := range exposures {
		asf += asfFactor(e) * e.Notional
		if e.ProductType == portfolio.ProductOffBalance {
			rsf += 0.05 * e.OffBalanceAmount
			continue
		}
		rsf += rsfFactor(e) * e.Notional
	}

	res := NSFRResult{ASF: asf, RSF: rsf}
	if rsf <= 0 {
		res.Ratio = math.Inf(1)
		return res, nil
	}
	res.Ratio = asf / rsf
	if math.IsNaN(res.Ratio) || math.IsInf(res.Ratio, -1) {
		return NSFRResult{}, regerr.Calc("liquidity.nsfr", "non-finite ratio")
	}
	return res, nil
}
