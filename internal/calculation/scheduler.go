package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// HorizonFunc counts the monthly planning periods between the start date and the final due date
type HorizonFunc func(start, end time.Time) int

// ThirtyDayHorizon is the planning rule in use: floor(days / 30).
// Swap it for CalendarMonthHorizon to count true calendar months instead.
func ThirtyDayHorizon(start, end time.Time) int {
	return dateutil.ThirtyDayPeriods(start, end)
}

// CalendarMonthHorizon counts whole calendar months between the two dates
func CalendarMonthHorizon(start, end time.Time) int {
	return dateutil.CalendarMonthsBetween(start, end)
}

// SavingsScheduler spreads the shortfall between a savings pot and a series of
// future tax payments evenly over the months until the last payment.
// It holds no per-call state and is safe for concurrent use.
type SavingsScheduler struct {
	Horizon HorizonFunc
	Logger  Logger
}

// NewSavingsScheduler creates a scheduler using the 30-day horizon rule
func NewSavingsScheduler() *SavingsScheduler {
	return &SavingsScheduler{Horizon: ThirtyDayHorizon, Logger: NopLogger{}}
}

// ComputePlan builds the month-by-month plan.
//
// The shortfall (obligations minus opening balance) is divided evenly over the
// horizon. Each period adds the flat contribution, then pays out every
// obligation due on or before the period end. Obligations still outstanding
// after the last month end are settled in the final period, so the plan always
// closes at opening + shortfall - obligations.
func (ss *SavingsScheduler) ComputePlan(openingBalance decimal.Decimal, obligations domain.Obligations, start time.Time) (*domain.SavingsPlan, error) {
	// Periods and due dates are compared as calendar days, whatever offset they carry
	obligations = obligations.CalendarDates()
	if err := obligations.Validate(); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, domain.NewValidationError("start_date", "is required")
	}

	logger := orNop(ss.Logger)
	start = dateutil.CalendarDate(start)
	lastDue := obligations.Last().DueDate
	if !start.Before(lastDue) {
		return nil, fmt.Errorf("%w: start date %s is not before the final due date %s",
			domain.ErrInvalidHorizon, start.Format("2006-01-02"), lastDue.Format("2006-01-02"))
	}

	horizon := ss.Horizon
	if horizon == nil {
		horizon = ThirtyDayHorizon
	}
	months := horizon(start, lastDue)
	if months < 1 {
		return nil, fmt.Errorf("%w: %d days between %s and %s is less than one planning month",
			domain.ErrInvalidHorizon, dateutil.DaysBetween(start, lastDue), start.Format("2006-01-02"), lastDue.Format("2006-01-02"))
	}

	totalObligations := obligations.Total()
	totalDue := totalObligations.Sub(openingBalance)
	monthly := totalDue.Div(decimal.NewFromInt(int64(months)))
	logger.Debugf("savings plan: %d obligations totalling %s, shortfall %s over %d months = %s/month",
		len(obligations), totalObligations.StringFixed(2), totalDue.StringFixed(2), months, monthly.StringFixed(2))

	entries := make([]domain.PlanEntry, 0, months)
	balance := openingBalance
	next := 0
	for i, periodEnd := range dateutil.MonthEnds(start, months) {
		balance = balance.Add(monthly)

		final := i == months-1
		var paid []domain.Obligation
		for next < len(obligations) && (final || !obligations[next].DueDate.After(periodEnd)) {
			paid = append(paid, obligations[next])
			balance = balance.Sub(obligations[next].Amount)
			next++
		}
		if balance.IsNegative() {
			logger.Warnf("savings plan: balance %s is negative after period ending %s", balance.StringFixed(2), periodEnd.Format("2006-01-02"))
		}

		entries = append(entries, domain.PlanEntry{
			PeriodEnd:            periodEnd,
			RequiredContribution: monthly,
			CumulativeBalance:    balance,
			Payments:             paid,
		})
	}

	return &domain.SavingsPlan{
		StartDate:           start,
		OpeningBalance:      openingBalance,
		TotalObligations:    totalObligations,
		TotalDue:            totalDue,
		HorizonMonths:       months,
		MonthlyContribution: monthly,
		Obligations:         obligations,
		Entries:             entries,
	}, nil
}
