package portfolio

import (
	"math"
	"sort"

	"github.com/bankcalc/regcap/regerr"
)

// Mode selects how validation failures are handled at the engine boundary.
// The choice is always explicit; there is no implicit default-and-continue.
type Mode string

const (
	// Strict aborts the whole computation on the first invalid row.
	Strict Mode = "strict"
	// Lenient drops invalid rows, reports them, and proceeds with the rest.
	Lenient Mode = "lenient"
)

var validClasses = map[ExposureClass]bool{
	ClassSovereign:       true,
	ClassInstitution:     true,
	ClassCorporate:       true,
	ClassCorporateSME:    true,
	ClassRetail:          true,
	ClassRetailMortgage:  true,
	ClassRetailRevolving: true,
	ClassEquity:          true,
	ClassInDefault:       true,
	ClassOther:           true,
}

var validProducts = map[ProductType]bool{
	ProductLoan:       true,
	ProductBond:       true,
	ProductDeposit:    true,
	ProductDerivative: true,
	ProductOffBalance: true,
	ProductEquity:     true,
}

// Validate checks one exposure row against the domain bounds of the schema.
// Out-of-domain rows are rejected, never clamped.
func Validate(e Exposure) error {
	if e.ExposureID == "" {
		return regerr.Invalid("", "exposure_id", "missing")
	}
	if !validProducts[e.ProductType] {
		return regerr.Invalid(e.ExposureID, "product_type", "unrecognized %q", e.ProductType)
	}
	if !validClasses[e.Class] {
		return regerr.Invalid(e.ExposureID, "exposure_class", "unrecognized %q", e.Class)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"notional", e.Notional},
		{"ead", e.EAD},
		{"pd", e.PD},
		{"lgd", e.LGD},
		{"ccf", e.CCF},
		{"maturity_years", e.MaturityYears},
		{"collateral_amount", e.CollateralAmount},
		{"mark_to_market", e.MarkToMarket},
		{"off_balance_amount", e.OffBalanceAmount},
		{"provisions", e.Provisions},
		{"pd_origination", e.PDOrigination},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return regerr.Invalid(e.ExposureID, f.name, "not finite")
		}
	}
	if e.PD <= 0 || e.PD >= 1 {
		return regerr.Invalid(e.ExposureID, "pd", "%g outside (0,1)", e.PD)
	}
	if e.LGD < 0 || e.LGD > 1 {
		return regerr.Invalid(e.ExposureID, "lgd", "%g outside [0,1]", e.LGD)
	}
	if e.CCF < 0 || e.CCF > 1 {
		return regerr.Invalid(e.ExposureID, "ccf", "%g outside [0,1]", e.CCF)
	}
	if e.MaturityYears < 0 {
		return regerr.Invalid(e.ExposureID, "maturity_years", "%g negative", e.MaturityYears)
	}
	if e.CollateralAmount < 0 {
		return regerr.Invalid(e.ExposureID, "collateral_amount", "%g negative", e.CollateralAmount)
	}
	if e.Stage < 1 || e.Stage > 3 {
		return regerr.Invalid(e.ExposureID, "stage", "%d outside 1..3", e.Stage)
	}
	if e.DaysPastDue < 0 {
		return regerr.Invalid(e.ExposureID, "days_past_due", "%d negative", e.DaysPastDue)
	}
	if e.PDOrigination < 0 || e.PDOrigination >= 1 {
		return regerr.Invalid(e.ExposureID, "pd_origination", "%g outside [0,1)", e.PDOrigination)
	}
	if e.ProductType == ProductDerivative && e.AssetClass == "" {
		return regerr.Invalid(e.ExposureID, "asset_class", "required for derivatives")
	}
	return nil
}

// ValidateAll validates every row once at the engine boundary. In Strict mode
// the first invalid row aborts the run. In Lenient mode invalid rows are
// dropped and reported alongside the surviving rows; the valid slice keeps a
// stable exposure-id order so downstream aggregation is reproducible.
func ValidateAll(exposures []Exposure, mode Mode) (valid []Exposure, bad []regerr.RowError, err error) {
	valid = make([]Exposure, 0, len(exposures))
	for _, e := range exposures {
		if verr := Validate(e); verr != nil {
			if mode == Strict {
				return nil, nil, verr
			}
			bad = append(bad, regerr.RowError{ExposureID: e.ExposureID, Err: verr})
			continue
		}
		valid = append(valid, e)
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].ExposureID < valid[j].ExposureID })
	return valid, bad, nil
}

// ByProduct returns the subset of exposures with the given product type,
// preserving order.
func ByProduct(exposures []Exposure, p ProductType) []Exposure {
	var out []Exposure
	for _, e := range exposures {
		if e.ProductType == p {
			out = append(out, e)
		}
	}
	return out
}
