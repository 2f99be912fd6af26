package output

import (
	"fmt"
	"strings"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// ConsoleFormatter renders the report as styled tables for a terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(RenderTitle("TAX SAVINGS REPORT"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n\n", mutedStyle.Render(fmt.Sprintf("As of %s, tax year %s",
		FormatDate(report.AsOf), dateutil.TaxYearLabel(dateutil.TaxYearStart(report.AsOf).Year()))))

	if report.Plan != nil {
		writeConsolePlan(&b, report.Plan)
	}
	if report.Tax != nil {
		writeConsoleTax(&b, report.Tax)
	}
	return []byte(b.String()), nil
}

func writeConsolePlan(b *strings.Builder, plan *domain.SavingsPlan) {
	summary := AnalyzePlan(plan)

	b.WriteString(headerStyle.Render("SAVINGS PLAN"))
	b.WriteString("\n")
	pairs := [][2]string{
		{"Start date", FormatDate(plan.StartDate)},
		{"Opening balance", FormatCurrency(plan.OpeningBalance)},
		{"Total obligations", FormatCurrency(plan.TotalObligations)},
		{"Still to save", FormatCurrency(plan.TotalDue)},
		{"Months", intToString(plan.HorizonMonths)},
		{"Monthly contribution", FormatCurrency(plan.MonthlyContribution)},
	}
	if summary.NextPayment != nil {
		pairs = append(pairs, [2]string{"Next payment", fmt.Sprintf("%s on %s",
			FormatCurrency(summary.NextPayment.Amount), FormatDate(summary.NextPayment.DueDate))})
	}
	b.WriteString(RenderKeyValues(pairs))
	b.WriteString("\n")

	switch {
	case summary.OverFunded:
		fmt.Fprintf(b, "  %s\n\n", goodStyle.Render(fmt.Sprintf(
			"Savings already cover every payment; %s can be released over the plan.", FormatCurrency(plan.TotalDue.Neg()))))
	case summary.ShortfallPeriods > 0:
		fmt.Fprintf(b, "  %s\n\n", warnStyle.Render(fmt.Sprintf(
			"The pot runs short in %d period(s); lowest balance %s at %s.",
			summary.ShortfallPeriods, FormatCurrency(summary.LowestBalance), FormatDate(summary.LowestBalanceDate))))
	}

	obligations := Table{Title: "Obligations", Headers: []string{"Due", "Payment", "Amount"}}
	for _, ob := range plan.Obligations {
		obligations.Rows = append(obligations.Rows, []string{FormatDate(ob.DueDate), ob.Description(), FormatCurrency(ob.Amount)})
	}
	obligations.Rows = append(obligations.Rows, []string{separatorRow})
	obligations.Rows = append(obligations.Rows, []string{"Total", "", FormatCurrency(plan.TotalObligations)})
	b.WriteString(RenderTable(obligations))
	b.WriteString("\n")

	schedule := Table{Title: "Schedule", Headers: []string{"Period ending", "Contribution", "Payments", "Balance"}}
	for _, e := range plan.Entries {
		payments := ""
		if len(e.Payments) > 0 {
			payments = FormatCurrency(e.PaymentsTotal())
		}
		balance := FormatCurrency(e.CumulativeBalance)
		if e.CumulativeBalance.Round(2).IsNegative() {
			balance = badStyle.Render(balance)
		}
		schedule.Rows = append(schedule.Rows, []string{FormatDate(e.PeriodEnd), FormatCurrency(e.RequiredContribution), payments, balance})
	}
	b.WriteString(RenderTable(schedule))
	b.WriteString("\n")
}

func writeConsoleTax(b *strings.Builder, tax *domain.TaxReport) {
	b.WriteString(headerStyle.Render("TAX ESTIMATE"))
	b.WriteString("\n")

	var bands []domain.BandTax
	switch {
	case tax.Annual != nil:
		est := tax.Annual
		pairs := [][2]string{
			{"Salary", FormatCurrency(est.Salary)},
			{"Dividends", FormatCurrency(est.Dividends)},
			{"Total income", FormatCurrency(est.TotalIncome)},
			{"Tax due", FormatCurrency(est.TaxDue)},
		}
		if tax.SavingsRatePercent != nil {
			pairs = append(pairs, [2]string{"Save", FormatPercentage(*tax.SavingsRatePercent) + " of income"})
		}
		b.WriteString(RenderKeyValues(pairs))
		bands = est.Bands
	case tax.Partial != nil:
		est := tax.Partial
		b.WriteString(RenderKeyValues([][2]string{
			{"Months elapsed", intToString(est.MonthsElapsed)},
			{"Months remaining", intToString(est.RemainingMonths)},
			{"Projected salary", FormatCurrency(est.ProjectedSalary)},
			{"Projected dividends", FormatCurrency(est.ProjectedDividends)},
			{"Projected income", FormatCurrency(est.ProjectedIncome)},
			{"Tax due", FormatCurrency(est.TaxDue)},
			{"Saved so far", FormatCurrency(est.SavingsToDate)},
			{"Save each month", FormatCurrency(est.RecommendedMonthlySaving)},
		}))
		if est.FullySaved() {
			fmt.Fprintf(b, "\n  %s\n", goodStyle.Render("Savings to date already cover the projected tax."))
		}
		bands = est.Bands
	}
	b.WriteString("\n")

	table := Table{Title: "Bands", Headers: []string{"Band", "Rate", "Taxable", "Tax"}}
	for i, band := range bands {
		name := band.Name
		if name == "" {
			name = fmt.Sprintf("Band %d", i+1)
		}
		table.Rows = append(table.Rows, []string{name, FormatRate(band.Rate), FormatCurrency(band.Taxable), FormatCurrency(band.Tax)})
	}
	b.WriteString(RenderTable(table))
	b.WriteString("\n")

	b.WriteString(mutedStyle.Render("  Assumptions"))
	b.WriteString("\n")
	for _, a := range GenerateAssumptions(tax.Brackets) {
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("•"), mutedStyle.Render(a))
	}
}
