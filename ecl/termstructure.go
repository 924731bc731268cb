package ecl

import "math"

// PDCurve is a monthly default-probability term structure derived from the
// annual PD under a constant hazard rate. Month t in 1..Horizon.
type PDCurve struct {
	Hazard  float64 // monthly hazard rate
	Horizon int     // months
}

// NewPDCurve builds the curve from an annual PD. The horizon is clamped to
// 1..60 months. annualPD must already be inside (0,1); the constant-hazard
// transform is exact at the 12-month point: PD12m(curve) == annualPD.
func NewPDCurve(annualPD float64, horizonMonths int) PDCurve {
	if horizonMonths < 1 {
		horizonMonths = 1
	}
	if horizonMonths > 60 {
		horizonMonths = 60
	}
	return PDCurve{
		Hazard:  -math.Log(1-annualPD) / 12,
		Horizon: horizonMonths,
	}
}

// Survival returns the survival probability to the end of month t.
func (c PDCurve) Survival(t int) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-c.Hazard * float64(t))
}

// Cumulative returns the cumulative default probability by month t,
// interpolating over the curve horizon.
func (c PDCurve) Cumulative(t int) float64 {
	if t > c.Horizon {
		t = c.Horizon
	}
	return 1 - c.Survival(t)
}

// Marginal returns the probability of defaulting during month t, i.e. the
// difference of cumulative PDs.
func (c PDCurve) Marginal(t int) float64 {
	if t <= 0 || t > c.Horizon {
		return 0
	}
	return c.Survival(t-1) - c.Survival(t)
}

// PD12M is the cumulative 12-month PD off the curve.
func (c PDCurve) PD12M() float64 { return c.Cumulative(12) }
