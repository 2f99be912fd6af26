package output

import (
	json "github.com/goccy/go-json"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

// JSONFormatter serializes the report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	return json.MarshalIndent(report, "", "  ")
}
