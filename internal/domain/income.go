package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeEstimate holds fully known annual salary and dividend income
type IncomeEstimate struct {
	Salary    decimal.Decimal `yaml:"salary" json:"salary" toml:"salary"`
	Dividends decimal.Decimal `yaml:"dividends" json:"dividends" toml:"dividends"`
}

// Total returns salary plus dividends. Dividends are not banded separately.
func (ie IncomeEstimate) Total() decimal.Decimal {
	return ie.Salary.Add(ie.Dividends)
}

// Validate rejects negative income components
func (ie IncomeEstimate) Validate() error {
	if ie.Salary.IsNegative() {
		return NewValidationError("salary", "cannot be negative (got %s)", ie.Salary.String())
	}
	if ie.Dividends.IsNegative() {
		return NewValidationError("dividends", "cannot be negative (got %s)", ie.Dividends.String())
	}
	return nil
}

// PartialIncome holds actual income received so far in the tax year plus the
// monthly run rate expected for the months that remain.
type PartialIncome struct {
	SalaryToDate        decimal.Decimal `yaml:"salary_to_date" json:"salary_to_date" toml:"salary_to_date"`
	DividendsToDate     decimal.Decimal `yaml:"dividends_to_date" json:"dividends_to_date" toml:"dividends_to_date"`
	MonthlySalaryRate   decimal.Decimal `yaml:"monthly_salary_rate" json:"monthly_salary_rate" toml:"monthly_salary_rate"`
	MonthlyDividendRate decimal.Decimal `yaml:"monthly_dividend_rate" json:"monthly_dividend_rate" toml:"monthly_dividend_rate"`
	SavingsToDate       decimal.Decimal `yaml:"savings_to_date" json:"savings_to_date" toml:"savings_to_date"`
	AsOf                time.Time       `yaml:"as_of" json:"as_of" toml:"as_of"`
}

// Validate rejects negative amounts
func (pi PartialIncome) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"salary_to_date", pi.SalaryToDate},
		{"dividends_to_date", pi.DividendsToDate},
		{"monthly_salary_rate", pi.MonthlySalaryRate},
		{"monthly_dividend_rate", pi.MonthlyDividendRate},
		{"savings_to_date", pi.SavingsToDate},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return NewValidationError(f.name, "cannot be negative (got %s)", f.value.String())
		}
	}
	return nil
}

// BandTax is the slice of income that fell inside one bracket and the tax charged on it
type BandTax struct {
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Lower   decimal.Decimal  `json:"lower" yaml:"lower"`
	Upper   *decimal.Decimal `json:"upper,omitempty" yaml:"upper,omitempty"`
	Rate    decimal.Decimal  `json:"marginal_rate" yaml:"marginal_rate"`
	Taxable decimal.Decimal  `json:"taxable" yaml:"taxable"`
	Tax     decimal.Decimal  `json:"tax" yaml:"tax"`
}

// TaxEstimate is the annual-mode result of the tax estimator
type TaxEstimate struct {
	Salary      decimal.Decimal `json:"salary" yaml:"salary"`
	Dividends   decimal.Decimal `json:"dividends" yaml:"dividends"`
	TotalIncome decimal.Decimal `json:"total_income" yaml:"total_income"`
	TaxDue      decimal.Decimal `json:"tax_due" yaml:"tax_due"`
	Bands       []BandTax       `json:"bands" yaml:"bands"`
}

// PartialTaxEstimate is the run-rate result of the tax estimator
type PartialTaxEstimate struct {
	AsOf                     time.Time       `json:"as_of" yaml:"as_of"`
	MonthsElapsed            int             `json:"months_elapsed" yaml:"months_elapsed"`
	RemainingMonths          int             `json:"remaining_months" yaml:"remaining_months"`
	ProjectedSalary          decimal.Decimal `json:"projected_salary" yaml:"projected_salary"`
	ProjectedDividends       decimal.Decimal `json:"projected_dividends" yaml:"projected_dividends"`
	ProjectedIncome          decimal.Decimal `json:"projected_income" yaml:"projected_income"`
	TaxDue                   decimal.Decimal `json:"tax_due" yaml:"tax_due"`
	SavingsToDate            decimal.Decimal `json:"savings_to_date" yaml:"savings_to_date"`
	RecommendedMonthlySaving decimal.Decimal `json:"recommended_monthly_saving" yaml:"recommended_monthly_saving"`
	Bands                    []BandTax       `json:"bands" yaml:"bands"`
}

// FullySaved reports whether savings to date already cover the projected tax
func (p *PartialTaxEstimate) FullySaved() bool {
	return !p.RecommendedMonthlySaving.IsPositive()
}
