package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one marginal band of a progressive schedule. It applies from Threshold
// up to the next bracket's threshold; the final bracket has no upper bound.
type Bracket struct {
	Name      string          `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold" toml:"threshold"`
	Rate      decimal.Decimal `yaml:"marginal_rate" json:"marginal_rate" toml:"marginal_rate"`
}

// BracketSchedule is an ordered set of brackets with strictly increasing thresholds
type BracketSchedule []Bracket

// DefaultSchedule returns the simplified UK-style schedule used when none is configured
func DefaultSchedule() BracketSchedule {
	return BracketSchedule{
		{Name: "Personal allowance", Threshold: decimal.Zero, Rate: decimal.Zero},
		{Name: "Basic rate", Threshold: decimal.NewFromInt(12500), Rate: decimal.NewFromFloat(0.20)},
		{Name: "Higher rate", Threshold: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.40)},
		{Name: "Additional rate", Threshold: decimal.NewFromInt(150000), Rate: decimal.NewFromFloat(0.45)},
	}
}

// Validate checks thresholds are non-negative and strictly increasing, and rates lie in [0, 1]
func (bs BracketSchedule) Validate() error {
	if len(bs) == 0 {
		return NewValidationError("brackets", "must contain at least one bracket")
	}
	one := decimal.NewFromInt(1)
	for i, b := range bs {
		field := fmt.Sprintf("brackets[%d]", i)
		if b.Threshold.IsNegative() {
			return NewValidationError(field+".threshold", "cannot be negative (got %s)", b.Threshold.String())
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return NewValidationError(field+".marginal_rate", "must be between 0 and 1 (got %s)", b.Rate.String())
		}
		if i > 0 && !b.Threshold.GreaterThan(bs[i-1].Threshold) {
			return NewValidationError(field+".threshold", "must be greater than the previous threshold (%s <= %s)",
				b.Threshold.String(), bs[i-1].Threshold.String())
		}
	}
	return nil
}

// Upper returns the exclusive upper bound of bracket i, or nil for the final bracket
func (bs BracketSchedule) Upper(i int) *decimal.Decimal {
	if i+1 >= len(bs) {
		return nil
	}
	upper := bs[i+1].Threshold
	return &upper
}

// TaxFreeThreshold returns the income up to which no tax is due
func (bs BracketSchedule) TaxFreeThreshold() decimal.Decimal {
	for _, b := range bs {
		if b.Rate.IsPositive() {
			return b.Threshold
		}
	}
	if len(bs) == 0 {
		return decimal.Zero
	}
	// no bracket charges tax
	return bs[len(bs)-1].Threshold
}
