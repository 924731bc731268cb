package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/scenario"
)

// ParamsHash returns the cache key component for a parameter set: SHA-256
// over a canonical JSON form. Struct field order is fixed at compile time and
// map-valued fields are re-encoded with sorted keys, so equal parameters
// always hash equally.
func ParamsHash(p *scenario.Parameters) (string, error) {
	type canonical struct {
		*scenario.Parameters
		Floors  []string `json:"floors_sorted"`
		Spreads []string `json:"spreads_sorted"`
	}

	c := canonical{Parameters: p}
	for class, f := range p.LGDDownturnFloorByClass {
		c.Floors = append(c.Floors, string(class)+"="+strconv.FormatFloat(f, 'g', -1, 64))
	}
	sort.Strings(c.Floors)
	for q, s := range p.CreditSpreadByQuality {
		c.Spreads = append(c.Spreads, string(q)+"="+strconv.FormatFloat(s, 'g', -1, 64))
	}
	sort.Strings(c.Spreads)

	// Suppress the map fields themselves; their sorted projections above are
	// the canonical form.
	shadow := *p
	shadow.LGDDownturnFloorByClass = nil
	shadow.CreditSpreadByQuality = nil
	c.Parameters = &shadow

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("hash parameters: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// PortfolioHash returns the cache key component for an exposure table,
// independent of row order.
func PortfolioHash(exposures []portfolio.Exposure) (string, error) {
	rows := make([]string, 0, len(exposures))
	for _, e := range exposures {
		data, err := json.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("hash exposure %s: %w", e.ExposureID, err)
		}
		rows = append(rows, string(data))
	}
	sort.Strings(rows)

	h := sha256.New()
	for _, r := range rows {
		h.Write([]byte(r))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
