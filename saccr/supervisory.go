// Package saccr measures counterparty credit risk of derivative netting sets
// under the standardized approach (SA-CCR).
package saccr

import "github.com/bankcalc/regcap/portfolio"

// Supervisory factors per asset class. These are regulation constants, not
// scenario inputs; only alpha is configurable.
var supervisoryFactor = map[portfolio.DerivativeClass]float64{
	portfolio.DerivInterestRate: 0.0050,
	portfolio.DerivFX:           0.0400,
	portfolio.DerivCredit:       0.0300, // single-name, sub-investment-grade bucket
	portfolio.DerivEquity:       0.3200, // single name
	portfolio.DerivCommodity:    0.1800,
}

// Correlation used for the systematic/idiosyncratic split when aggregating
// hedging sets within credit, equity and commodity classes. Interest-rate and
// FX hedging sets (per currency) do not offset each other and are summed on
// absolute value.
var classCorrelation = map[portfolio.DerivativeClass]float64{
	portfolio.DerivCredit:    0.50,
	portfolio.DerivEquity:    0.50,
	portfolio.DerivCommodity: 0.40,
}

// multiplierFloor is the 5% floor of the PFE multiplier.
const multiplierFloor = 0.05

// DefaultAlpha is the supervisory alpha applied to RC + PFE.
const DefaultAlpha = 1.4
