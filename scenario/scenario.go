// Package scenario holds the typed parameter set for a calculation run.
// Every recognized option is an enumerated struct field, validated at
// construction; nothing is read at point-of-use from a loose map.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bankcalc/regcap/portfolio"
	"github.com/bankcalc/regcap/regerr"
)

// CreditQuality buckets counterparties for BA-CVA weights and pricing spreads.
type CreditQuality string

const (
	QualityInvestmentGrade CreditQuality = "investment_grade"
	QualityHighYield       CreditQuality = "high_yield"
	QualityDistressed      CreditQuality = "distressed"
)

// Buffers are the capital buffer add-ons applied on top of the Pillar 1 minima.
type Buffers struct {
	Conservation    float64 `json:"conservation" yaml:"conservation"`
	Countercyclical float64 `json:"countercyclical" yaml:"countercyclical"`
	Systemic        float64 `json:"systemic" yaml:"systemic"`
}

// Total returns the combined buffer requirement.
func (b Buffers) Total() float64 { return b.Conservation + b.Countercyclical + b.Systemic }

// Parameters is the frozen configuration for one calculation run. Engines
// treat it as read-only; two runs with equal Parameters and equal exposures
// produce bit-identical results.
type Parameters struct {
	Alpha        float64 `json:"alpha" yaml:"alpha"`                 // SA-CCR multiplier
	RecoveryRate float64 `json:"recovery_rate" yaml:"recovery_rate"` // CVA pricing
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate"`

	LGDDownturnFloorByClass map[portfolio.ExposureClass]float64 `json:"lgd_downturn_floor_by_class" yaml:"lgd_downturn_floor_by_class"`

	SICRThreshold        float64 `json:"sicr_threshold" yaml:"sicr_threshold"` // relative PD deterioration
	BackstopDaysPastDue  int     `json:"backstop_days_past_due" yaml:"backstop_days_past_due"`
	DefaultDaysPastDue   int     `json:"default_days_past_due" yaml:"default_days_past_due"`
	PDCurveHorizonMonths int     `json:"pd_curve_horizon_months" yaml:"pd_curve_horizon_months"`

	CapitalBuffers Buffers `json:"capital_buffers" yaml:"capital_buffers"`

	IncludeCVAPricing bool `json:"include_cva_pricing" yaml:"include_cva_pricing"`

	// Annual credit spreads by derived counterparty quality, used by the
	// v1 CVA pricing hazard (lambda = spread / LGD).
	CreditSpreadByQuality map[CreditQuality]float64 `json:"credit_spread_by_quality" yaml:"credit_spread_by_quality"`

	Mode portfolio.Mode `json:"mode" yaml:"mode"`
}

// Default returns the baseline scenario.
func Default() *Parameters {
	return &Parameters{
		Alpha:        1.4,
		RecoveryRate: 0.40,
		RiskFreeRate: 0.02,
		LGDDownturnFloorByClass: map[portfolio.ExposureClass]float64{
			portfolio.ClassRetailMortgage: 0.10,
			portfolio.ClassRetail:         0.20,
			portfolio.ClassCorporate:      0.25,
			portfolio.ClassCorporateSME:   0.25,
		},
		SICRThreshold:        2.0, // lifetime PD more than doubled since origination
		BackstopDaysPastDue:  30,
		DefaultDaysPastDue:   90,
		PDCurveHorizonMonths: 60,
		CapitalBuffers: Buffers{
			Conservation:    0.025,
			Countercyclical: 0.0,
			Systemic:        0.0,
		},
		IncludeCVAPricing: true,
		CreditSpreadByQuality: map[CreditQuality]float64{
			QualityInvestmentGrade: 0.0080,
			QualityHighYield:       0.0300,
			QualityDistressed:      0.0800,
		},
		Mode: portfolio.Lenient,
	}
}

// Validate checks every option. A Parameters value that fails Validate must
// never reach an engine.
func (p *Parameters) Validate() error {
	if p.Alpha <= 0 {
		return regerr.Config("alpha", "must be positive, got %g", p.Alpha)
	}
	if p.RecoveryRate < 0 || p.RecoveryRate >= 1 {
		return regerr.Config("recovery_rate", "%g outside [0,1)", p.RecoveryRate)
	}
	if p.RiskFreeRate < -0.05 || p.RiskFreeRate > 0.5 {
		return regerr.Config("risk_free_rate", "%g implausible", p.RiskFreeRate)
	}
	for class, floor := range p.LGDDownturnFloorByClass {
		if floor < 0 || floor > 1 {
			return regerr.Config("lgd_downturn_floor_by_class", "%s: %g outside [0,1]", class, floor)
		}
	}
	if p.SICRThreshold <= 1 {
		return regerr.Config("sicr_threshold", "must exceed 1 (relative deterioration), got %g", p.SICRThreshold)
	}
	if p.BackstopDaysPastDue <= 0 {
		return regerr.Config("backstop_days_past_due", "must be positive, got %d", p.BackstopDaysPastDue)
	}
	if p.DefaultDaysPastDue <= p.BackstopDaysPastDue {
		return regerr.Config("default_days_past_due", "%d must exceed backstop %d", p.DefaultDaysPastDue, p.BackstopDaysPastDue)
	}
	if p.PDCurveHorizonMonths < 1 || p.PDCurveHorizonMonths > 60 {
		return regerr.Config("pd_curve_horizon_months", "%d outside 1..60", p.PDCurveHorizonMonths)
	}
	if b := p.CapitalBuffers; b.Conservation < 0 || b.Countercyclical < 0 || b.Countercyclical > 0.025 ||
		b.Systemic < 0 || b.Systemic > 0.03 {
		return regerr.Config("capital_buffers", "conservation %g, countercyclical %g (max 0.025), systemic %g (max 0.03)",
			b.Conservation, b.Countercyclical, b.Systemic)
	}
	for q, s := range p.CreditSpreadByQuality {
		if s < 0 || s > 1 {
			return regerr.Config("credit_spread_by_quality", "%s: %g outside [0,1]", q, s)
		}
	}
	if p.Mode != portfolio.Strict && p.Mode != portfolio.Lenient {
		return regerr.Config("mode", "must be %q or %q, got %q", portfolio.Strict, portfolio.Lenient, p.Mode)
	}
	return nil
}

// Load reads a scenario from a YAML or JSON file and validates it.
func Load(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		if jerr := json.Unmarshal(data, p); jerr != nil {
			return nil, fmt.Errorf("parse scenario (tried YAML and JSON): %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the scenario to a file; the extension picks the format.
func (p *Parameters) Save(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(p)
	} else {
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scenario file: %w", err)
	}
	return nil
}

// QualityFromPD derives a counterparty credit-quality bucket from its PD.
// External ratings are not part of the exposure schema, so PD thresholds
// stand in: below 0.5% investment grade, below 5% high yield, else distressed.
func QualityFromPD(pd float64) CreditQuality {
	switch {
	case pd < 0.005:
		return QualityInvestmentGrade
	case pd < 0.05:
		return QualityHighYield
	default:
		return QualityDistressed
	}
}
