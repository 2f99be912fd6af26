package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanEntry is the state of the savings pot at the end of one monthly period
type PlanEntry struct {
	PeriodEnd            time.Time       `json:"period_end_date" yaml:"period_end_date"`
	RequiredContribution decimal.Decimal `json:"required_contribution" yaml:"required_contribution"`
	CumulativeBalance    decimal.Decimal `json:"cumulative_balance" yaml:"cumulative_balance"`

	// Obligations paid out of the pot during this period
	Payments []Obligation `json:"payments,omitempty" yaml:"payments,omitempty"`
}

// PaymentsTotal sums the obligations settled in this period
func (e PlanEntry) PaymentsTotal() decimal.Decimal {
	return Obligations(e.Payments).Total()
}

// SavingsPlan is the month-by-month schedule produced by the savings scheduler
type SavingsPlan struct {
	StartDate           time.Time       `json:"start_date" yaml:"start_date"`
	OpeningBalance      decimal.Decimal `json:"opening_balance" yaml:"opening_balance"`
	TotalObligations    decimal.Decimal `json:"total_obligations" yaml:"total_obligations"`
	TotalDue            decimal.Decimal `json:"total_due" yaml:"total_due"`
	HorizonMonths       int             `json:"horizon_months" yaml:"horizon_months"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution" yaml:"monthly_contribution"`
	Obligations         Obligations     `json:"obligations" yaml:"obligations"`
	Entries             []PlanEntry     `json:"entries" yaml:"entries"`
}

// FinalBalance returns the balance after the last period, or the opening balance for an empty plan
func (p *SavingsPlan) FinalBalance() decimal.Decimal {
	if len(p.Entries) == 0 {
		return p.OpeningBalance
	}
	return p.Entries[len(p.Entries)-1].CumulativeBalance
}

// IsOverFunded reports whether the opening balance already covers every obligation
func (p *SavingsPlan) IsOverFunded() bool {
	return p.TotalDue.IsNegative()
}

// TotalContributions sums the contributions across every period
func (p *SavingsPlan) TotalContributions() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entries {
		total = total.Add(e.RequiredContribution)
	}
	return total
}
