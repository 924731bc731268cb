// Package rwa computes credit-risk capital under the CRR3 standardized and
// internal-ratings-based approaches.
package rwa

import (
	"math"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

// Base risk weights per standardized exposure class.
var riskWeights = map[portfolio.ExposureClass]float64{
	portfolio.ClassSovereign:       0.00,
	portfolio.ClassInstitution:     0.30,
	portfolio.ClassCorporate:       1.00,
	portfolio.ClassCorporateSME:    1.00, // SME support factor applied separately
	portfolio.ClassRetail:          0.75,
	portfolio.ClassRetailMortgage:  0.35,
	portfolio.ClassRetailRevolving: 0.75,
	portfolio.ClassEquity:          2.50,
	portfolio.ClassInDefault:       1.50,
	portfolio.ClassOther:           1.00,
}

// smeSupportFactor scales down RWA for SME corporates.
const smeSupportFactor = 0.85

// Classification is the resolved standardized treatment of one exposure.
type Classification struct {
	Class      portfolio.ExposureClass
	RiskWeight float64
	SME        bool
}

// Classify maps an exposure to its standardized class and base risk weight.
// Defaulted exposures always land in the in-default class regardless of the
// upstream label. An unrecognized class is an InvalidDataError, never a
// fallback weight.
func Classify(e portfolio.Exposure) (Classification, error) {
	class := e.Class
	if e.Defaulted || e.Stage == 3 {
		class = portfolio.ClassInDefault
	}
	rw, ok := riskWeights[class]
	if !ok {
		return Classification{}, regerr.Invalid(e.ExposureID, "exposure_class", "unrecognized %q", class)
	}
	return Classification{
		Class:      class,
		RiskWeight: rw,
		SME:        class == portfolio.ClassCorporateSME,
	}, nil
}

// Result is the standardized-approach output for one exposure.
type Result struct {
	ExposureID string
	Class      portfolio.ExposureClass
	EAD        float64
	RiskWeight float64
	RWA        float64
}

// EAD returns exposure at default: on-balance amount plus CCF-weighted
// off-balance commitment.
func EAD(e portfolio.Exposure) float64 {
	return e.EAD + e.CCF*e.OffBalanceAmount
}

// Standardized computes EAD and risk-weighted amount for all exposures in one
// pass. Rows must already have passed boundary validation; a classification
// failure here still aborts with the row identified.
func Standardized(exposures []portfolio.Exposure) ([]Result, error) {
	out := make([]Result, 0, len(exposures))
	for _, e := range exposures {
		c, err := Classify(e)
		if err != nil {
			return nil, err
		}

		ead := EAD(e)
		rwa := ead * c.RiskWeight
		if e.Provisions > 0 && ead > 0 {
			adj := 1 - e.Provisions/ead
			if adj < 0 {
				adj = 0
			}
			rwa *= adj
		}
		if c.SME {
			rwa *= smeSupportFactor
		}
		if math.IsNaN(rwa) || math.IsInf(rwa, 0) {
			return nil, regerr.Calc("standardized.rwa", "non-finite RWA for exposure %s", e.ExposureID)
		}

		out = append(out, Result{
			ExposureID: e.ExposureID,
			Class:      c.Class,
			EAD:        ead,
			RiskWeight: c.RiskWeight,
			RWA:        rwa,
		})
	}
	return out, nil
}

// TotalRWA sums standardized results.
func TotalRWA(results []Result) float64 {
	var sum float64
	for _, r := range results {
		sum += r.RWA
	}
	return sum
}
