package saccr

import (
	"math"
	"sort"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

// NettingSetResult is the SA-CCR output for one netting set.
type NettingSetResult struct {
	NettingSetID   string
	CounterpartyID string
	TradeCount     int

	ReplacementCost float64
	AddOn           float64
	Multiplier      float64
	EAD             float64

	// Effective maturity of the set (notional-weighted), consumed by BA-CVA.
	EffectiveMaturity float64
}

// Compute runs SA-CCR over every netting set built from the portfolio's
// derivative exposures. Zero-notional trades are excluded up front so they can
// never produce a division by zero in the add-on math. Results come back
// sorted by netting set id.
func Compute(exposures []portfolio.Exposure, alpha float64) ([]NettingSetResult, error) {
	if alpha <= 0 {
		return nil, regerr.Config("alpha", "must be positive, got %g", alpha)
	}

	sets := portfolio.GroupNettingSets(exposures)
	out := make([]NettingSetResult, 0, len(sets))
	for _, ns := range sets {
		r, err := computeSet(ns, alpha)
		if err != nil {
			return nil, err
		}
		if r.TradeCount == 0 {
			continue // all trades were zero-notional
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NettingSetID < out[j].NettingSetID })
	return out, nil
}

func computeSet(ns portfolio.NettingSet, alpha float64) (NettingSetResult, error) {
	var (
		sumMTM      float64
		sumNotional float64
		weightedM   float64
		tradeCount  int
	)

	// Effective notionals per hedging set: keyed by currency for IR/FX,
	// by reference entity for credit/equity/commodity.
	hedging := map[portfolio.DerivativeClass]map[string]float64{}

	for _, t := range ns.Trades {
		if t.Notional == 0 {
			continue
		}
		if _, ok := supervisoryFactor[t.AssetClass]; !ok {
			return NettingSetResult{}, regerr.Invalid(t.ExposureID, "asset_class", "unrecognized %q", t.AssetClass)
		}
		tradeCount++
		sumMTM += t.MarkToMarket
		sumNotional += math.Abs(t.Notional)
		weightedM += math.Abs(t.Notional) * t.MaturityYears

		d := adjustedNotional(t) * maturityFactor(t.MaturityYears)
		key := t.Currency
		switch t.AssetClass {
		case portfolio.DerivCredit, portfolio.DerivEquity, portfolio.DerivCommodity:
			key = t.Entity
		}
		if hedging[t.AssetClass] == nil {
			hedging[t.AssetClass] = map[string]float64{}
		}
		hedging[t.AssetClass][key] += d
	}

	if tradeCount == 0 {
		return NettingSetResult{NettingSetID: ns.NettingSetID}, nil
	}

	addOn := aggregateAddOn(hedging)
	rc := math.Max(sumMTM-ns.Collateral, 0)
	mult := Multiplier(sumMTM-ns.Collateral, addOn)
	ead := EADFromComponents(alpha, rc, mult, addOn)
	if math.IsNaN(ead) || math.IsInf(ead, 0) {
		return NettingSetResult{}, regerr.Calc("saccr.ead", "non-finite EAD for netting set %s", ns.NettingSetID)
	}

	return NettingSetResult{
		NettingSetID:      ns.NettingSetID,
		CounterpartyID:    ns.CounterpartyID,
		TradeCount:        tradeCount,
		ReplacementCost:   rc,
		AddOn:             addOn,
		Multiplier:        mult,
		EAD:               ead,
		EffectiveMaturity: weightedM / sumNotional,
	}, nil
}

// aggregateAddOn combines hedging-set effective notionals into the netting-set
// add-on. IR and FX hedging sets (one per currency) never offset each other;
// credit, equity and commodity use the systematic/idiosyncratic split with the
// supervisory correlation. Class add-ons sum across classes.
func aggregateAddOn(hedging map[portfolio.DerivativeClass]map[string]float64) float64 {
	var total float64
	for class, sets := range hedging {
		sf := supervisoryFactor[class]

		// Deterministic iteration keeps floating sums reproducible.
		keys := make([]string, 0, len(sets))
		for k := range sets {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if rho, ok := classCorrelation[class]; ok {
			var sysSum, idioSum float64
			for _, k := range keys {
				a := sf * sets[k]
				sysSum += rho * a
				idioSum += (1 - rho*rho) * a * a
			}
			total += math.Sqrt(sysSum*sysSum + idioSum)
			continue
		}
		for _, k := range keys {
			total += math.Abs(sf * sets[k])
		}
	}
	return total
}

// Multiplier discounts the add-on when the netting set is over-collateralized
// (net value v below zero). Floored at 5%; an uncollateralized or
// under-collateralized set gets the full add-on. A zero add-on short-circuits
// to 1 so the exponent never divides by zero.
func Multiplier(v, addOn float64) float64 {
	if addOn <= 0 || v >= 0 {
		return 1
	}
	m := multiplierFloor + (1-multiplierFloor)*math.Exp(v/(2*(1-multiplierFloor)*addOn))
	return math.Min(1, m)
}

// EADFromComponents assembles the final exposure: alpha * (RC + multiplier*AddOn).
func EADFromComponents(alpha, rc, multiplier, addOn float64) float64 {
	return alpha * (rc + multiplier*addOn)
}

// TotalEAD sums netting-set EADs.
func TotalEAD(results []NettingSetResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.EAD
	}
	return sum
}

// adjustedNotional applies the supervisory duration to interest-rate trades;
// other classes use raw notional.
func adjustedNotional(t portfolio.Exposure) float64 {
	n := math.Abs(t.Notional)
	if t.AssetClass == portfolio.DerivInterestRate {
		return n * (1 - math.Exp(-0.05*math.Max(t.MaturityYears, 10.0/365))) / 0.05
	}
	return n
}

// maturityFactor for unmargined netting sets: sqrt(min(M, 1y)/1y) with a ten
// business day floor.
func maturityFactor(maturityYears float64) float64 {
	m := math.Max(maturityYears, 10.0/365)
	return math.Sqrt(math.Min(m, 1))
}
