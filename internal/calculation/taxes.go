package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// TAX ESTIMATION ASSUMPTIONS:
//
// 1. Salary and dividends are pooled into one taxable total. There are no
//    separate dividend bands, dividend allowance or personal allowance taper.
//
// 2. The bracket schedule is fixed for the whole year; the default is
//    0% to 12,500, 20% to 50,000, 40% to 150,000 and 45% above.
//
// 3. Run-rate projections assume the monthly rate holds for every remaining
//    month of the tax year (6 April to 5 April).

// ApplyBrackets walks the schedule in ascending order. Bracket i taxes the
// income in [threshold_i, threshold_i+1) at its marginal rate; the final
// bracket taxes everything above its threshold.
func ApplyBrackets(income decimal.Decimal, schedule domain.BracketSchedule) (decimal.Decimal, []domain.BandTax) {
	totalTax := decimal.Zero
	bands := make([]domain.BandTax, 0, len(schedule))
	for i, bracket := range schedule {
		upper := schedule.Upper(i)

		taxable := decimal.Zero
		if income.GreaterThan(bracket.Threshold) {
			top := income
			if upper != nil {
				top = decimal.Min(income, *upper)
			}
			taxable = top.Sub(bracket.Threshold)
		}

		tax := taxable.Mul(bracket.Rate)
		totalTax = totalTax.Add(tax)
		bands = append(bands, domain.BandTax{
			Name:    bracket.Name,
			Lower:   bracket.Threshold,
			Upper:   upper,
			Rate:    bracket.Rate,
			Taxable: taxable,
			Tax:     tax,
		})
	}
	return totalTax, bands
}

// SavingsRate returns the share of income, as a percentage, that should be put aside for tax
func SavingsRate(taxDue, totalIncome decimal.Decimal) (decimal.Decimal, error) {
	if totalIncome.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: savings rate needs a non-zero total income", domain.ErrDivisionByZero)
	}
	return taxDue.Div(totalIncome).Mul(decimal.NewFromInt(100)), nil
}

// TaxEstimator applies a progressive bracket schedule to salary and dividend income
type TaxEstimator struct {
	Schedule domain.BracketSchedule
	Logger   Logger
}

// NewTaxEstimator creates an estimator for the given schedule.
// An empty schedule falls back to domain.DefaultSchedule.
func NewTaxEstimator(schedule domain.BracketSchedule) (*TaxEstimator, error) {
	if len(schedule) == 0 {
		schedule = domain.DefaultSchedule()
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("bracket schedule: %w", err)
	}
	return &TaxEstimator{
		Schedule: append(domain.BracketSchedule(nil), schedule...),
		Logger:   NopLogger{},
	}, nil
}

// NewDefaultTaxEstimator creates an estimator using the default UK-style schedule
func NewDefaultTaxEstimator() *TaxEstimator {
	return &TaxEstimator{Schedule: domain.DefaultSchedule(), Logger: NopLogger{}}
}

// EstimateTax calculates tax due on a full year of salary and dividends
func (te *TaxEstimator) EstimateTax(income domain.IncomeEstimate) (*domain.TaxEstimate, error) {
	if err := income.Validate(); err != nil {
		return nil, err
	}

	total := income.Total()
	taxDue, bands := ApplyBrackets(total, te.Schedule)
	orNop(te.Logger).Debugf("tax estimate: income %s -> tax %s", total.StringFixed(2), taxDue.StringFixed(2))

	return &domain.TaxEstimate{
		Salary:      income.Salary,
		Dividends:   income.Dividends,
		TotalIncome: total,
		TaxDue:      taxDue,
		Bands:       bands,
	}, nil
}

// EstimateTaxPartial projects partial-year income to a full year and recommends a monthly set-aside.
// Elapsed months are derived from AsOf against a tax year starting 6 April.
func (te *TaxEstimator) EstimateTaxPartial(partial domain.PartialIncome) (*domain.PartialTaxEstimate, error) {
	if partial.AsOf.IsZero() {
		return nil, domain.NewValidationError("as_of", "is required")
	}
	if dateutil.RemainingMonthsInTaxYear(partial.AsOf) == 0 {
		return nil, fmt.Errorf("%w: %s is in the final month of the tax year ending %s; no months remain to save over",
			domain.ErrDivisionByZero, partial.AsOf.Format("2006-01-02"), dateutil.TaxYearEnd(partial.AsOf).Format("2006-01-02"))
	}
	return te.EstimateTaxPartialForMonths(partial, dateutil.MonthsElapsedInTaxYear(partial.AsOf))
}

// EstimateTaxPartialForMonths is EstimateTaxPartial with the elapsed month count supplied directly.
// A zero remaining month count is reported as domain.ErrDivisionByZero.
func (te *TaxEstimator) EstimateTaxPartialForMonths(partial domain.PartialIncome, monthsElapsed int) (*domain.PartialTaxEstimate, error) {
	if err := partial.Validate(); err != nil {
		return nil, err
	}
	if monthsElapsed < 1 || monthsElapsed > 12 {
		return nil, domain.NewValidationError("months_elapsed", "must be between 1 and 12 (got %d)", monthsElapsed)
	}

	remaining := 12 - monthsElapsed
	if remaining == 0 {
		return nil, fmt.Errorf("%w: no months remain in the tax year to save over", domain.ErrDivisionByZero)
	}
	remainingDec := decimal.NewFromInt(int64(remaining))

	projectedSalary := partial.SalaryToDate.Add(partial.MonthlySalaryRate.Mul(remainingDec))
	projectedDividends := partial.DividendsToDate.Add(partial.MonthlyDividendRate.Mul(remainingDec))
	projected := projectedSalary.Add(projectedDividends)

	taxDue, bands := ApplyBrackets(projected, te.Schedule)
	recommended := taxDue.Sub(partial.SavingsToDate).Div(remainingDec)
	orNop(te.Logger).Debugf("partial tax estimate: %d months elapsed, projected income %s, tax %s, save %s/month",
		monthsElapsed, projected.StringFixed(2), taxDue.StringFixed(2), recommended.StringFixed(2))

	return &domain.PartialTaxEstimate{
		AsOf:                     partial.AsOf,
		MonthsElapsed:            monthsElapsed,
		RemainingMonths:          remaining,
		ProjectedSalary:          projectedSalary,
		ProjectedDividends:       projectedDividends,
		ProjectedIncome:          projected,
		TaxDue:                   taxDue,
		SavingsToDate:            partial.SavingsToDate,
		RecommendedMonthlySaving: recommended,
		Bands:                    bands,
	}, nil
}
