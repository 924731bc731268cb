// Package liquidity computes the LCR and NSFR ratios from balance-sheet
// classified exposures.
package liquidity

import (
	"math"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

// HQLA haircuts per tier.
const (
	haircutLevel2A = 0.15
	haircutLevel2B = 0.50
)

// LCRResult reports the ratio with its raw components for auditability.
type LCRResult struct {
	HQLA        float64
	Level1      float64 // post-haircut, pre-cap
	Level2A     float64
	Level2B     float64
	Outflows    float64
	Inflows     float64 // post-cap
	NetOutflows float64
	Ratio       float64 // +Inf when there are no net outflows
}

// hqlaTier buckets a bond holding by issuer class.
func hqlaTier(e portfolio.Exposure) int {
	switch e.Class {
	case portfolio.ClassSovereign:
		return 1
	case portfolio.ClassInstitution:
		return 2 // covered/financial paper -> Level 2A
	case portfolio.ClassCorporate, portfolio.ClassCorporateSME:
		return 3 // corporate paper -> Level 2B
	default:
		return 0
	}
}

// outflowRate returns the 30-day stress outflow rate for a funding exposure.
func outflowRate(e portfolio.Exposure) float64 {
	switch e.ProductType {
	case portfolio.ProductDeposit:
		switch e.Class {
		case portfolio.ClassRetail, portfolio.ClassRetailMortgage, portfolio.ClassRetailRevolving:
			if e.MaturityYears >= 1 {
				return 0.03 // stable retail
			}
			return 0.10 // less stable retail
		case portfolio.ClassCorporate, portfolio.ClassCorporateSME:
			return 0.40
		case portfolio.ClassSovereign:
			return 0.20
		case portfolio.ClassInstitution:
			return 1.00
		default:
			return 0.40
		}
	case portfolio.ProductOffBalance:
		switch e.Class {
		case portfolio.ClassRetail, portfolio.ClassRetailMortgage, portfolio.ClassRetailRevolving:
			return 0.10 // committed retail facilities
		case portfolio.ClassInstitution:
			return 1.00
		default:
			return 0.30 // committed corporate facilities
		}
	}
	return 0
}

// inflowRate returns the 30-day contractual inflow rate for an asset exposure.
func inflowRate(e portfolio.Exposure) float64 {
	if e.ProductType != portfolio.ProductLoan {
		return 0
	}
	if e.MaturityYears <= 1.0/12 {
		if e.IsRetail() {
			return 0.50
		}
		return 1.00
	}
	return 0
}

// LCR computes the liquidity coverage ratio.
//
// Cap order matters: haircuts first, then the Level 2B cap (at most 15% of
// total HQLA, i.e. 15/85 of Level 1 + capped 2A stack), then the combined
// Level 2 cap (at most 40% of total, i.e. 2/3 of Level 1). Inflows are capped
// at 75% of outflows. Zero net outflows yield a +Inf ratio, never a division
// by zero; callers read the raw components alongside.
func LCR(exposures []portfolio.Exposure) (LCRResult, error) {
	var l1, l2a, l2b, outflows, inflows float64

	for _, e := range exposures {
		if e.ProductType == portfolio.ProductBond {
			switch hqlaTier(e) {
			case 1:
				l1 += e.Notional
			case 2:
				l2a += e.Notional * (1 - haircutLevel2A)
			case 3:
				l2b += e.Notional * (1 - haircutLevel2B)
			}
		}
		outflows += outflowRate(e) * outflowBase(e)
		inflows += inflowRate(e) * e.EAD
	}

	l2bCapped := math.Min(l2b, (0.15/0.85)*(l1+l2a))
	l2 := math.Min(l2a+l2bCapped, (2.0/3.0)*l1)
	hqla := l1 + l2

	inflowsCapped := math.Min(inflows, 0.75*outflows)
	net := outflows - inflowsCapped

	res := LCRResult{
		HQLA:        hqla,
		Level1:      l1,
		Level2A:     l2a,
		Level2B:     l2b,
		Outflows:    outflows,
		Inflows:     inflowsCapped,
		NetOutflows: net,
	}
	if net <= 0 {
		res.Ratio = math.Inf(1)
		return res, nil
	}
	res.Ratio = hqla / net
	if math.IsNaN(res.Ratio) {
		return LCRResult{}, regerr.Calc("liquidity.lcr", "non-finite ratio")
	}
	return res, nil
}

// outflowBase is the balance the outflow rate applies to: deposit balance for
// funding, undrawn commitment for facilities.
func outflowBase(e portfolio.Exposure) float64 {
	if e.ProductType == portfolio.ProductOffBalance {
		return e.OffBalanceAmount
	}
	return e.Notional
}
