package portfolio

import "sort"

// NettingSet groups derivative exposures that share legal netting rights with
// one counterparty. Threshold and MTA are carried for completeness but no
// engine applies them yet.
type NettingSet struct {
	NettingSetID   string
	CounterpartyID string
	Trades         []Exposure
	Collateral     float64

	Threshold float64
	MTA       float64
}

// NetMTM returns the sum of trade mark-to-market values.
func (n NettingSet) NetMTM() float64 {
	var sum float64
	for _, t := range n.Trades {
		sum += t.MarkToMarket
	}
	return sum
}

// GroupNettingSets builds netting sets from the derivative exposures of a
// portfolio. A derivative with no netting_set_id forms a single-trade set
// keyed by its own exposure id. Sets come back sorted by id so iteration
// order is deterministic.
func GroupNettingSets(exposures []Exposure) []NettingSet {
	byID := make(map[string]*NettingSet)
	for _, e := range exposures {
		if e.ProductType != ProductDerivative {
			continue
		}
		id := e.NettingSetID
		if id == "" {
			id = "single:" + e.ExposureID
		}
		ns, ok := byID[id]
		if !ok {
			ns = &NettingSet{NettingSetID: id, CounterpartyID: e.CounterpartyID}
			byID[id] = ns
		}
		ns.Trades = append(ns.Trades, e)
		ns.Collateral += e.CollateralAmount
	}

	out := make([]NettingSet, 0, len(byID))
	for _, ns := range byID {
		sort.Slice(ns.Trades, func(i, j int) bool {
			return ns.Trades[i].ExposureID < ns.Trades[j].ExposureID
		})
		out = append(out, *ns)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NettingSetID < out[j].NettingSetID })
	return out
}
