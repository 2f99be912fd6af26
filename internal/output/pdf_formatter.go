package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginRight  = 15.0
	pdfMarginTop    = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders the report as an A4 document.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.SetCreationDate(report.AsOf)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 12, "Tax Savings Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(80, 80, 80)
	subtitle := fmt.Sprintf("As of %s, tax year %s", FormatDate(report.AsOf), dateutil.TaxYearLabel(dateutil.TaxYearStart(report.AsOf).Year()))
	pdf.CellFormat(pdfContentWidth, 8, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if report.Plan != nil {
		writePDFPlan(pdf, report.Plan)
	}
	if report.Tax != nil {
		writePDFTax(pdf, report.Tax)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfText converts UTF-8 text to the Latin-1 the standard PDF fonts expect
func pdfText(s string) string {
	return strings.ReplaceAll(s, "£", "\xa3")
}

func pdfHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 9, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func pdfKeyValues(pdf *fpdf.Fpdf, pairs [][2]string) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, p := range pairs {
		pdf.CellFormat(60, 6, pdfText(p[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfContentWidth-60, 6, pdfText(p[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

// pdfTable draws a header row and data rows; widths must match the column count
func pdfTable(pdf *fpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetTextColor(0, 51, 102)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, pdfText(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writePDFPlan(pdf *fpdf.Fpdf, plan *domain.SavingsPlan) {
	summary := AnalyzePlan(plan)
	pdfHeading(pdf, "Savings Plan")
	pdfKeyValues(pdf, [][2]string{
		{"Start date", FormatDate(plan.StartDate)},
		{"Opening balance", FormatCurrency(plan.OpeningBalance)},
		{"Total obligations", FormatCurrency(plan.TotalObligations)},
		{"Still to save", FormatCurrency(plan.TotalDue)},
		{"Months", intToString(plan.HorizonMonths)},
		{"Monthly contribution", FormatCurrency(plan.MonthlyContribution)},
		{"Lowest balance", fmt.Sprintf("%s at %s", FormatCurrency(summary.LowestBalance), FormatDate(summary.LowestBalanceDate))},
	})

	rows := make([][]string, 0, len(plan.Obligations))
	for _, ob := range plan.Obligations {
		rows = append(rows, []string{ob.Description(), FormatDate(ob.DueDate), FormatCurrency(ob.Amount)})
	}
	pdfTable(pdf, []string{"Payment", "Due", "Amount"}, []float64{80, 50, 50}, rows)

	rows = rows[:0]
	for _, e := range plan.Entries {
		payments := ""
		if len(e.Payments) > 0 {
			payments = FormatCurrency(e.PaymentsTotal())
		}
		rows = append(rows, []string{FormatDate(e.PeriodEnd), FormatCurrency(e.RequiredContribution), payments, FormatCurrency(e.CumulativeBalance)})
	}
	pdfTable(pdf, []string{"Period ending", "Contribution", "Payments", "Balance"}, []float64{45, 45, 45, 45}, rows)
}

func writePDFTax(pdf *fpdf.Fpdf, tax *domain.TaxReport) {
	pdfHeading(pdf, "Tax Estimate")

	var bands []domain.BandTax
	if est := tax.Annual; est != nil {
		pairs := [][2]string{
			{"Salary", FormatCurrency(est.Salary)},
			{"Dividends", FormatCurrency(est.Dividends)},
			{"Total income", FormatCurrency(est.TotalIncome)},
			{"Tax due", FormatCurrency(est.TaxDue)},
		}
		if tax.SavingsRatePercent != nil {
			pairs = append(pairs, [2]string{"Save", FormatPercentage(*tax.SavingsRatePercent) + " of income"})
		}
		pdfKeyValues(pdf, pairs)
		bands = est.Bands
	} else if est := tax.Partial; est != nil {
		pdfKeyValues(pdf, [][2]string{
			{"Months elapsed", intToString(est.MonthsElapsed)},
			{"Months remaining", intToString(est.RemainingMonths)},
			{"Projected income", FormatCurrency(est.ProjectedIncome)},
			{"Tax due", FormatCurrency(est.TaxDue)},
			{"Saved so far", FormatCurrency(est.SavingsToDate)},
			{"Save each month", FormatCurrency(est.RecommendedMonthlySaving)},
		})
		bands = est.Bands
	}

	rows := make([][]string, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, []string{b.Name, FormatRate(b.Rate), FormatCurrency(b.Taxable), FormatCurrency(b.Tax)})
	}
	pdfTable(pdf, []string{"Band", "Rate", "Taxable", "Tax"}, []float64{60, 30, 45, 45}, rows)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	for _, a := range GenerateAssumptions(tax.Brackets) {
		pdf.MultiCell(pdfContentWidth, 4.5, pdfText("- "+a), "", "L", false)
	}
}
