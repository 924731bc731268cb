// Package cva computes the BA-CVA own-funds requirement and a simplified CVA
// pricing estimate from SA-CCR netting-set exposures.
package cva

import (
	"math"
	"sort"

	"github.com/bankcalc/regcap/regerr"
	"github.com/bankcalc/regcap/saccr"
	"github.com/bankcalc/regcap/scenario"
)

// Supervisory risk weights per derived counterparty credit quality.
var supervisoryWeight = map[scenario.CreditQuality]float64{
	scenario.QualityInvestmentGrade: 0.015,
	scenario.QualityHighYield:       0.035,
	scenario.QualityDistressed:      0.075,
}

// Counterparty is the per-counterparty CVA view: SA-CCR exposure plus its
// quality bucket and effective maturity, aggregated across netting sets.
type Counterparty struct {
	CounterpartyID    string
	Quality           scenario.CreditQuality
	EAD               float64
	EffectiveMaturity float64 // EAD-weighted across netting sets
	Weight            float64
}

// CapitalResult is the BA-CVA own-funds requirement.
type CapitalResult struct {
	KCVA           float64
	Counterparties []Counterparty
}

// Aggregate groups SA-CCR results by counterparty. Quality is derived from the
// counterparty's worst (highest) trade PD, looked up via pdByCounterparty.
func Aggregate(sets []saccr.NettingSetResult, pdByCounterparty map[string]float64) []Counterparty {
	byID := map[string]*Counterparty{}
	for _, ns := range sets {
		c := byID[ns.CounterpartyID]
		if c == nil {
			c = &Counterparty{CounterpartyID: ns.CounterpartyID}
			byID[ns.CounterpartyID] = c
		}
		c.EffectiveMaturity += ns.EAD * ns.EffectiveMaturity
		c.EAD += ns.EAD
	}

	out := make([]Counterparty, 0, len(byID))
	for _, c := range byID {
		if c.EAD > 0 {
			c.EffectiveMaturity /= c.EAD
		}
		c.Quality = scenario.QualityFromPD(pdByCounterparty[c.CounterpartyID])
		c.Weight = supervisoryWeight[c.Quality]
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CounterpartyID < out[j].CounterpartyID })
	return out
}

// Capital computes the basic-approach CVA requirement:
//
//	K = 2.33 * sqrt( sum_i (w_i * M_i * EAD_i)^2 )
func Capital(counterparties []Counterparty) (CapitalResult, error) {
	var sumSq float64
	for _, c := range counterparties {
		s := c.Weight * c.EffectiveMaturity * c.EAD
		sumSq += s * s
	}
	k := 2.33 * math.Sqrt(sumSq)
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return CapitalResult{}, regerr.Calc("cva.capital", "non-finite K_CVA")
	}
	return CapitalResult{KCVA: k, Counterparties: counterparties}, nil
}

// PricingResult is the simplified CVA price for one counterparty.
type PricingResult struct {
	CounterpartyID string
	CVA            float64
	Spread         float64
	Hazard         float64
}

// Pricing estimates CVA per counterparty on an annual grid:
//
//	CVA = (1-R) * sum_t DF(t) * dPD(t) * EE(t)
//
// Expected exposure is held flat at the counterparty's SA-CCR EAD. That flat
// profile is the documented v1 simplification; a time-profiled EE is a v2
// extension, not a fix. The hazard rate lambda = spread/LGD uses the
// scenario's per-quality spread and the loss share (1 - recovery).
func Pricing(counterparties []Counterparty, params *scenario.Parameters) ([]PricingResult, error) {
	lgd := 1 - params.RecoveryRate
	if lgd <= 0 {
		return nil, regerr.Config("recovery_rate", "implies non-positive LGD %g", lgd)
	}

	out := make([]PricingResult, 0, len(counterparties))
	for _, c := range counterparties {
		spread, ok := params.CreditSpreadByQuality[c.Quality]
		if !ok {
			return nil, regerr.Config("credit_spread_by_quality", "no spread for quality %q", c.Quality)
		}
		hazard := spread / lgd

		years := int(math.Ceil(c.EffectiveMaturity))
		if years < 1 {
			years = 1
		}

		var cvaSum float64
		survivalPrev := 1.0
		for t := 1; t <= years; t++ {
			survival := math.Exp(-hazard * float64(t))
			dPD := survivalPrev - survival
			df := math.Exp(-params.RiskFreeRate * float64(t))
			cvaSum += df * dPD * c.EAD
			survivalPrev = survival
		}
		cvaVal := lgd * cvaSum
		if math.IsNaN(cvaVal) || math.IsInf(cvaVal, 0) {
			return nil, regerr.Calc("cva.pricing", "non-finite CVA for counterparty %s", c.CounterpartyID)
		}

		out = append(out, PricingResult{
			CounterpartyID: c.CounterpartyID,
			CVA:            cvaVal,
			Spread:         spread,
			Hazard:         hazard,
		})
	}
	return out, nil
}

// ReportRow combines SA-CCR exposure, BA-CVA contribution and CVA price for
// one counterparty.
type ReportRow struct {
	CounterpartyID    string
	Quality           scenario.CreditQuality
	EAD               float64
	EffectiveMaturity float64
	CapitalTerm       float64 // w*M*EAD, the counterparty's K_CVA input
	CVAPrice          float64
}

// Report builds the per-counterparty report joining all three views. Pricing
// rows are optional (nil when the scenario excludes CVA pricing).
func Report(counterparties []Counterparty, pricing []PricingResult) []ReportRow {
	priceByID := map[string]float64{}
	for _, p := range pricing {
		priceByID[p.CounterpartyID] = p.CVA
	}

	out := make([]ReportRow, 0, len(counterparties))
	for _, c := range counterparties {
		out = append(out, ReportRow{
			CounterpartyID:    c.CounterpartyID,
			Quality:           c.Quality,
			EAD:               c.EAD,
			EffectiveMaturity: c.EffectiveMaturity,
			CapitalTerm:       c.Weight * c.EffectiveMaturity * c.EAD,
			CVAPrice:          priceByID[c.CounterpartyID],
		})
	}
	return out
}
