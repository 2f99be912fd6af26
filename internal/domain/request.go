package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// SelfAssessmentAmounts are the three payments due for one self-assessment year
type SelfAssessmentAmounts struct {
	BalancingPayment       decimal.Decimal `yaml:"balancing_payment" json:"balancing_payment" toml:"balancing_payment"`
	FirstPaymentOnAccount  decimal.Decimal `yaml:"first_payment_on_account" json:"first_payment_on_account" toml:"first_payment_on_account"`
	SecondPaymentOnAccount decimal.Decimal `yaml:"second_payment_on_account" json:"second_payment_on_account" toml:"second_payment_on_account"`
}

// SelfAssessmentInput describes obligations by payment instead of by date.
// Due dates (31 January, 31 July) are derived from the plan start date.
type SelfAssessmentInput struct {
	CurrentYear SelfAssessmentAmounts `yaml:"current_year" json:"current_year" toml:"current_year"`
	NextYear    SelfAssessmentAmounts `yaml:"next_year" json:"next_year" toml:"next_year"`
}

// PlanRequest carries everything the savings scheduler needs for one calculation
type PlanRequest struct {
	StartDate      time.Time            `yaml:"start_date,omitempty" json:"start_date,omitempty" toml:"start_date,omitempty"`
	OpeningBalance decimal.Decimal      `yaml:"opening_balance" json:"opening_balance" toml:"opening_balance"`
	Obligations    Obligations          `yaml:"obligations,omitempty" json:"obligations,omitempty" toml:"obligations,omitempty"`
	SelfAssessment *SelfAssessmentInput `yaml:"self_assessment,omitempty" json:"self_assessment,omitempty" toml:"self_assessment,omitempty"`
}

// TaxRequest carries either annual or partial-year income, plus an optional bracket schedule
type TaxRequest struct {
	Annual   *IncomeEstimate `yaml:"annual,omitempty" json:"annual,omitempty" toml:"annual,omitempty"`
	Partial  *PartialIncome  `yaml:"partial,omitempty" json:"partial,omitempty" toml:"partial,omitempty"`
	Brackets BracketSchedule `yaml:"brackets,omitempty" json:"brackets,omitempty" toml:"brackets,omitempty"`
}

// Request is the complete, immutable input assembled by a host before invoking the engine
type Request struct {
	AsOf time.Time    `yaml:"as_of" json:"as_of" toml:"as_of"`
	Plan *PlanRequest `yaml:"plan,omitempty" json:"plan,omitempty" toml:"plan,omitempty"`
	Tax  *TaxRequest  `yaml:"tax,omitempty" json:"tax,omitempty" toml:"tax,omitempty"`
}

// Resolved returns a copy of the request in which every unset date inherits AsOf.
// The receiver is left untouched.
func (r Request) Resolved() Request {
	out := r
	if r.Plan != nil {
		plan := *r.Plan
		if plan.StartDate.IsZero() {
			plan.StartDate = r.AsOf
		}
		out.Plan = &plan
	}
	if r.Tax != nil {
		tax := *r.Tax
		if r.Tax.Partial != nil {
			partial := *r.Tax.Partial
			if partial.AsOf.IsZero() {
				partial.AsOf = r.AsOf
			}
			tax.Partial = &partial
		}
		out.Tax = &tax
	}
	return out
}

// NormalizeDates moves the start date and every due date onto UTC calendar dates
func (p *PlanRequest) NormalizeDates() {
	p.StartDate = dateutil.CalendarDate(p.StartDate)
	p.Obligations = p.Obligations.CalendarDates()
}

// NormalizeDates moves every date in the request onto a UTC calendar date.
// YAML timestamps, TOML local dates and RFC3339 strings with offsets all decode
// into differing locations.
func (r *Request) NormalizeDates() {
	r.AsOf = dateutil.CalendarDate(r.AsOf)
	if r.Plan != nil {
		r.Plan.NormalizeDates()
	}
	if r.Tax != nil && r.Tax.Partial != nil {
		r.Tax.Partial.AsOf = dateutil.CalendarDate(r.Tax.Partial.AsOf)
	}
}
