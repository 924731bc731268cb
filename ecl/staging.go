// Package ecl implements IFRS 9 staging and expected credit loss.
package ecl

import (
	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/scenario"
)

// Stage is an IFRS 9 impairment stage.
type Stage int

const (
	Stage1 Stage = 1 // performing, 12-month ECL
	Stage2 Stage = 2 // significant increase in credit risk, lifetime ECL
	Stage3 Stage = 3 // credit-impaired, lifetime ECL at PD=1
)

// SICR reports whether the exposure shows a significant increase in credit
// risk: lifetime PD deteriorated beyond the relative threshold since
// origination, or the 30-day arrears backstop fired. With no origination PD
// on record only the backstop can trigger.
func SICR(e portfolio.Exposure, params *scenario.Parameters) bool {
	if e.DaysPastDue >= params.BackstopDaysPastDue {
		return true
	}
	if e.PDOrigination > 0 && e.PD/e.PDOrigination >= params.SICRThreshold {
		return true
	}
	return false
}

// inDefault reports the stage-3 trigger: a default event or the 90-day
// arrears backstop.
func inDefault(e portfolio.Exposure, params *scenario.Parameters) bool {
	return e.Defaulted || e.DaysPastDue >= params.DefaultDaysPastDue
}

// Restage runs the staging state machine for one exposure starting from its
// recorded stage.
//
// Downgrades follow the SICR and default triggers. Cures are symmetric but
// gated on arrears: S3 cures to S2 once neither default trigger holds, and S2
// cures to S1 only when no SICR trigger holds AND the exposure has zero days
// past due. The zero-arrears gate is the probation proxy for a stateless
// engine that sees no payment history; an exposure still in partial arrears
// (1..29 dpd) stays in stage 2 even below the SICR threshold.
func Restage(e portfolio.Exposure, params *scenario.Parameters) Stage {
	current := Stage(e.Stage)

	if inDefault(e, params) {
		return Stage3
	}

	switch current {
	case Stage3:
		// Default trigger resolved: cure one notch.
		return Stage2
	case Stage2:
		if SICR(e, params) || e.DaysPastDue > 0 {
			return Stage2
		}
		return Stage1
	default:
		if SICR(e, params) {
			return Stage2
		}
		return Stage1
	}
}
