package output

import (
	"fmt"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Salary and dividends are taxed together on one progressive schedule",
	"No personal allowance taper, dividend allowance or National Insurance",
	"Monthly contributions are equal across the plan and are not rounded",
	"The plan length is the number of whole 30-day periods until the last payment",
}

// GenerateAssumptions describes the bracket schedule actually used, followed by the fixed assumptions
func GenerateAssumptions(schedule domain.BracketSchedule) []string {
	lines := make([]string, 0, len(schedule)+1+len(DefaultAssumptions))
	for i, b := range schedule {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("Band %d", i+1)
		}
		if upper := schedule.Upper(i); upper != nil {
			lines = append(lines, fmt.Sprintf("%s: %s from %s to %s", name, FormatRate(b.Rate), FormatCurrency(b.Threshold), FormatCurrency(*upper)))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s above %s", name, FormatRate(b.Rate), FormatCurrency(b.Threshold)))
		}
	}
	if len(schedule) > 0 {
		lines = append(lines, "No tax is due on income up to "+FormatCurrency(schedule.TaxFreeThreshold()))
	}
	return append(lines, DefaultAssumptions...)
}
