package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankcalc/regcap/portfolio"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	p := Default()
	assert.InDelta(t, 1.4, p.Alpha, 1e-12)
	assert.Equal(t, 30, p.BackstopDaysPastDue)
	assert.Equal(t, 90, p.DefaultDaysPastDue)
	assert.Equal(t, 60, p.PDCurveHorizonMonths)
	assert.InDelta(t, 0.025, p.CapitalBuffers.Conservation, 1e-12)
	assert.Equal(t, portfolio.Lenient, p.Mode)
	assert.NoError(t, p.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Parameters)
		errSub string
	}{
		{"valid", func(p *Parameters) {}, ""},
		{"zero alpha", func(p *Parameters) { p.Alpha = 0 }, "alpha"},
		{"recovery one", func(p *Parameters) { p.RecoveryRate = 1 }, "recovery_rate"},
		{"sicr below one", func(p *Parameters) { p.SICRThreshold = 0.9 }, "sicr_threshold"},
		{"zero backstop", func(p *Parameters) { p.BackstopDaysPastDue = 0 }, "backstop_days_past_due"},
		{"default before backstop", func(p *Parameters) { p.DefaultDaysPastDue = 20 }, "default_days_past_due"},
		{"horizon too long", func(p *Parameters) { p.PDCurveHorizonMonths = 61 }, "pd_curve_horizon_months"},
		{"countercyclical too big", func(p *Parameters) { p.CapitalBuffers.Countercyclical = 0.05 }, "capital_buffers"},
		{"systemic too big", func(p *Parameters) { p.CapitalBuffers.Systemic = 0.05 }, "capital_buffers"},
		{"bad floor", func(p *Parameters) {
			p.LGDDownturnFloorByClass[portfolio.ClassRetail] = 1.5
		}, "lgd_downturn_floor_by_class"},
		{"bad spread", func(p *Parameters) {
			p.CreditSpreadByQuality[QualityHighYield] = -0.01
		}, "credit_spread_by_quality"},
		{"bad mode", func(p *Parameters) { p.Mode = "loose" }, "mode"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Default()
			tt.mutate(p)
			err := p.Validate()
			if tt.errSub == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSub)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			p := Default()
			p.Alpha = 1.2
			p.IncludeCVAPricing = false
			path := filepath.Join(tmpDir, "scenario"+ext)

			require.NoError(t, p.Save(path))
			loaded, err := Load(path)
			require.NoError(t, err)

			assert.InDelta(t, 1.2, loaded.Alpha, 1e-12)
			assert.False(t, loaded.IncludeCVAPricing)
			assert.Equal(t, p.BackstopDaysPastDue, loaded.BackstopDaysPastDue)
			assert.InDelta(t,
				p.LGDDownturnFloorByClass[portfolio.ClassRetail],
				loaded.LGDDownturnFloorByClass[portfolio.ClassRetail], 1e-12)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	p := Default()
	p.Alpha = -1
	// Save skips validation on purpose; Load must reject.
	require.NoError(t, p.Save(path))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load("/nonexistent/scenario.yaml")
	assert.Error(t, err)
}

func TestQualityFromPD(t *testing.T) {
	t.Parallel()

	assert.Equal(t, QualityInvestmentGrade, QualityFromPD(0.001))
	assert.Equal(t, QualityHighYield, QualityFromPD(0.02))
	assert.Equal(t, QualityDistressed, QualityFromPD(0.10))
}
