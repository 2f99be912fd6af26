package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxReport is the tax estimator's answer to a TaxRequest.
// Exactly one of Annual or Partial is set.
type TaxReport struct {
	Annual             *TaxEstimate        `json:"annual,omitempty" yaml:"annual,omitempty"`
	SavingsRatePercent *decimal.Decimal    `json:"savings_rate_percent,omitempty" yaml:"savings_rate_percent,omitempty"`
	Partial            *PartialTaxEstimate `json:"partial,omitempty" yaml:"partial,omitempty"`
	Brackets           BracketSchedule     `json:"brackets" yaml:"brackets"`
}

// Report bundles the results of one Request for formatting
type Report struct {
	AsOf time.Time    `json:"as_of" yaml:"as_of"`
	Plan *SavingsPlan `json:"plan,omitempty" yaml:"plan,omitempty"`
	Tax  *TaxReport   `json:"tax,omitempty" yaml:"tax,omitempty"`
}
