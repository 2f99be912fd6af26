package main

import (
	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

var (
	flagSalaryToDate     string
	flagDividendsToDate  string
	flagMonthlySalary    string
	flagMonthlyDividends string
	flagSavedToDate      string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project partial-year income to a full tax year and suggest a monthly saving",
	Long: `Project income received so far in the tax year (6 April to 5 April) forward
at a monthly run rate, estimate the tax on the projected total and spread the
amount not yet saved over the months that remain.`,
	Args: cobra.NoArgs,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringVar(&flagSalaryToDate, "salary-to-date", "0", "Salary received so far this tax year")
	projectCmd.Flags().StringVar(&flagDividendsToDate, "dividends-to-date", "0", "Dividends received so far this tax year")
	projectCmd.Flags().StringVar(&flagMonthlySalary, "monthly-salary", "0", "Expected salary per remaining month")
	projectCmd.Flags().StringVar(&flagMonthlyDividends, "monthly-dividends", "0", "Expected dividends per remaining month")
	projectCmd.Flags().StringVar(&flagSavedToDate, "saved", "0", "Amount already set aside for this year's tax")
	rootCmd.AddCommand(projectCmd)
}

func runProject(_ *cobra.Command, _ []string) error {
	cfg := loadSettings()
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	asOf, err := referenceDate()
	if err != nil {
		return err
	}

	partial := domain.PartialIncome{AsOf: asOf}
	if partial.SalaryToDate, err = parseAmount("salary-to-date", flagSalaryToDate); err != nil {
		return err
	}
	if partial.DividendsToDate, err = parseAmount("dividends-to-date", flagDividendsToDate); err != nil {
		return err
	}
	if partial.MonthlySalaryRate, err = parseAmount("monthly-salary", flagMonthlySalary); err != nil {
		return err
	}
	if partial.MonthlyDividendRate, err = parseAmount("monthly-dividends", flagMonthlyDividends); err != nil {
		return err
	}
	if partial.SavingsToDate, err = parseAmount("saved", flagSavedToDate); err != nil {
		return err
	}

	tax, err := engine.RunTax(&domain.TaxRequest{Partial: &partial})
	if err != nil {
		return err
	}
	return emit(cfg, &domain.Report{AsOf: asOf, Tax: tax})
}
