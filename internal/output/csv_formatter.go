package output

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

// CSVFormatter exports the savings schedule, one row per period. A report
// without a plan exports its tax bands instead.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	if report.Plan != nil {
		return scheduleCSV(report.Plan)
	}
	return bandsCSV(report.Tax)
}

func scheduleCSV(plan *domain.SavingsPlan) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Period", "PeriodEnd", "RequiredContribution", "Payments", "PaymentDetails", "CumulativeBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, e := range plan.Entries {
		details := make([]string, 0, len(e.Payments))
		for _, p := range e.Payments {
			details = append(details, p.Description()+" "+p.DueDate.Format("2006-01-02"))
		}
		row := []string{
			intToString(i + 1),
			e.PeriodEnd.Format("2006-01-02"),
			FormatAmount(e.RequiredContribution),
			FormatAmount(e.PaymentsTotal()),
			strings.Join(details, "; "),
			FormatAmount(e.CumulativeBalance),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func bandsCSV(tax *domain.TaxReport) ([]byte, error) {
	var bands []domain.BandTax
	if tax.Annual != nil {
		bands = tax.Annual.Bands
	} else if tax.Partial != nil {
		bands = tax.Partial.Bands
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Band", "Lower", "Upper", "MarginalRate", "Taxable", "Tax"}); err != nil {
		return nil, err
	}
	for _, b := range bands {
		upper := ""
		if b.Upper != nil {
			upper = FormatAmount(*b.Upper)
		}
		row := []string{b.Name, FormatAmount(b.Lower), upper, b.Rate.String(), FormatAmount(b.Taxable), FormatAmount(b.Tax)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
