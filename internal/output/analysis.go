package output

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

// PlanSummary collects the headline figures of a savings plan.
type PlanSummary struct {
	MonthlyContribution decimal.Decimal
	TotalContributions  decimal.Decimal
	LowestBalance       decimal.Decimal
	LowestBalanceDate   time.Time
	// ShortfallPeriods counts periods that close with a negative balance.
	ShortfallPeriods int
	OverFunded       bool
	NextPayment      *domain.Obligation
}

// AnalyzePlan extracts the lowest point of the pot and the next payment due.
// Extracted from the formatters for testability.
func AnalyzePlan(plan *domain.SavingsPlan) PlanSummary {
	s := PlanSummary{
		MonthlyContribution: plan.MonthlyContribution,
		TotalContributions:  plan.TotalContributions(),
		LowestBalance:       plan.OpeningBalance,
		LowestBalanceDate:   plan.StartDate,
		OverFunded:          plan.IsOverFunded(),
	}
	for _, e := range plan.Entries {
		if e.CumulativeBalance.LessThan(s.LowestBalance) {
			s.LowestBalance = e.CumulativeBalance
			s.LowestBalanceDate = e.PeriodEnd
		}
		if e.CumulativeBalance.Round(2).IsNegative() {
			s.ShortfallPeriods++
		}
	}
	for i := range plan.Obligations {
		if !plan.Obligations[i].DueDate.Before(plan.StartDate) {
			next := plan.Obligations[i]
			s.NextPayment = &next
			break
		}
	}
	return s
}
