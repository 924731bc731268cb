// Package portfolio defines the exposure data model consumed by every
// calculation engine, its boundary validation, and a CSV loader for the CLI.
package portfolio

import "time"

// ProductType identifies what kind of financial position an exposure is.
type ProductType string

const (
	ProductLoan       ProductType = "loan"
	ProductBond       ProductType = "bond"
	ProductDeposit    ProductType = "deposit"
	ProductDerivative ProductType = "derivative"
	ProductOffBalance ProductType = "off_balance_sheet"
	ProductEquity     ProductType = "equity"
)

// ExposureClass is the CRR3 exposure category assigned upstream.
type ExposureClass string

const (
	ClassSovereign       ExposureClass = "sovereign"
	ClassInstitution     ExposureClass = "institution"
	ClassCorporate       ExposureClass = "corporate"
	ClassCorporateSME    ExposureClass = "corporate_sme"
	ClassRetail          ExposureClass = "retail"
	ClassRetailMortgage  ExposureClass = "retail_mortgage"
	ClassRetailRevolving ExposureClass = "retail_revolving"
	ClassEquity          ExposureClass = "equity"
	ClassInDefault       ExposureClass = "in_default"
	ClassOther           ExposureClass = "other"
)

// DerivativeClass is the SA-CCR supervisory asset class of a derivative trade.
type DerivativeClass string

const (
	DerivInterestRate DerivativeClass = "interest_rate"
	DerivFX           DerivativeClass = "fx"
	DerivCredit       DerivativeClass = "credit"
	DerivEquity       DerivativeClass = "equity"
	DerivCommodity    DerivativeClass = "commodity"
)

// Exposure is one row of the portfolio table: a single financial position.
// Rows are immutable once generated for a run; engines only read them.
type Exposure struct {
	ExposureID     string        `json:"exposure_id" yaml:"exposure_id"`
	RunID          string        `json:"run_id" yaml:"run_id"`
	CounterpartyID string        `json:"counterparty_id" yaml:"counterparty_id"`
	NettingSetID   string        `json:"netting_set_id,omitempty" yaml:"netting_set_id,omitempty"`
	Entity         string        `json:"entity" yaml:"entity"`
	ProductType    ProductType   `json:"product_type" yaml:"product_type"`
	Class          ExposureClass `json:"exposure_class" yaml:"exposure_class"`

	Notional         float64 `json:"notional" yaml:"notional"`
	EAD              float64 `json:"ead" yaml:"ead"`
	PD               float64 `json:"pd" yaml:"pd"`   // (0,1)
	LGD              float64 `json:"lgd" yaml:"lgd"` // [0,1]
	CCF              float64 `json:"ccf" yaml:"ccf"` // [0,1]
	MaturityYears    float64 `json:"maturity_years" yaml:"maturity_years"`
	Currency         string  `json:"currency" yaml:"currency"`
	CollateralAmount float64 `json:"collateral_amount" yaml:"collateral_amount"`
	MarkToMarket     float64 `json:"mark_to_market" yaml:"mark_to_market"`
	OffBalanceAmount float64 `json:"off_balance_amount" yaml:"off_balance_amount"`
	Provisions       float64 `json:"provisions" yaml:"provisions"`

	// IFRS 9 staging inputs.
	Stage         int       `json:"stage" yaml:"stage"` // 1, 2 or 3
	DaysPastDue   int       `json:"days_past_due" yaml:"days_past_due"`
	PDOrigination float64   `json:"pd_origination" yaml:"pd_origination"`
	Defaulted     bool      `json:"defaulted" yaml:"defaulted"`
	OriginDate    time.Time `json:"origin_date" yaml:"origin_date"`

	// Derivative-only supervisory asset class.
	AssetClass DerivativeClass `json:"asset_class,omitempty" yaml:"asset_class,omitempty"`

	// SME size in EUR millions of annual turnover, zero when unknown.
	AnnualTurnoverM float64 `json:"annual_turnover_m" yaml:"annual_turnover_m"`
}

// IsRetail reports whether the exposure belongs to any retail class.
func (e Exposure) IsRetail() bool {
	switch e.Class {
	case ClassRetail, ClassRetailMortgage, ClassRetailRevolving:
		return true
	}
	return false
}

// CapitalBase is the bank's own funds for a calculation run, supplied
// externally and never derived by the engines.
type CapitalBase struct {
	CET1             float64 `json:"cet1" yaml:"cet1"`
	AdditionalTier1  float64 `json:"additional_tier1" yaml:"additional_tier1"`
	Tier2            float64 `json:"tier2" yaml:"tier2"`
	LeverageExposure float64 `json:"leverage_exposure" yaml:"leverage_exposure"`
}

// Tier1 returns CET1 + Additional Tier 1.
func (c CapitalBase) Tier1() float64 { return c.CET1 + c.AdditionalTier1 }

// TotalCapital returns Tier 1 + Tier 2.
func (c CapitalBase) TotalCapital() float64 { return c.Tier1() + c.Tier2 }
