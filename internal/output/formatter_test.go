package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/tomsentry/tax-savings-tool/internal/calculation"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

func buildTestReport(t *testing.T) *domain.Report {
	t.Helper()
	req := &domain.Request{
		AsOf: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		Plan: &domain.PlanRequest{
			OpeningBalance: decimal.NewFromInt(500),
			Obligations: domain.Obligations{
				{DueDate: time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(3000), Kind: domain.PaymentBalancing},
				{DueDate: time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1500), Kind: domain.PaymentFirstPaymentOnAccount},
				{DueDate: time.Date(2027, 7, 31, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1500), Kind: domain.PaymentSecondPaymentOnAccount},
			},
		},
		Tax: &domain.TaxRequest{Annual: &domain.IncomeEstimate{Salary: decimal.NewFromInt(60000)}},
	}
	report, err := calculation.NewCalculationEngine().Run(req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return report
}

func buildPartialReport(t *testing.T) *domain.Report {
	t.Helper()
	report, err := calculation.NewCalculationEngine().Run(&domain.Request{
		AsOf: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		Tax: &domain.TaxRequest{Partial: &domain.PartialIncome{
			SalaryToDate:      decimal.NewFromInt(35000),
			MonthlySalaryRate: decimal.NewFromInt(5000),
			SavingsToDate:     decimal.NewFromInt(4000),
		}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return report
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"TAX SAVINGS REPORT",
		"tax year 2026/27",
		"SAVINGS PLAN",
		"£611.11",
		"31 Jan 2027",
		"1st payment on account",
		"TAX ESTIMATE",
		"£11,500.00",
		"19.17% of income",
		"Higher rate",
		"runs short",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("console output missing %q:\n%s", want, content)
		}
	}
}

func TestConsoleFormatterPartial(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildPartialReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if strings.Contains(content, "SAVINGS PLAN") {
		t.Fatalf("partial report should have no plan section")
	}
	if !strings.Contains(content, "Save each month") || !strings.Contains(content, "£1,500.00") {
		t.Fatalf("expected monthly recommendation, got:\n%s", content)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		AsOf time.Time `json:"as_of"`
		Plan struct {
			HorizonMonths int `json:"horizon_months"`
			Entries       []struct {
				PeriodEnd         time.Time       `json:"period_end_date"`
				CumulativeBalance decimal.Decimal `json:"cumulative_balance"`
			} `json:"entries"`
		} `json:"plan"`
		Tax struct {
			Annual struct {
				TaxDue decimal.Decimal `json:"tax_due"`
			} `json:"annual"`
		} `json:"tax"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Plan.HorizonMonths != 9 || len(decoded.Plan.Entries) != 9 {
		t.Fatalf("expected 9 entries, got %d/%d", decoded.Plan.HorizonMonths, len(decoded.Plan.Entries))
	}
	if !decoded.Tax.Annual.TaxDue.Equal(decimal.NewFromInt(11500)) {
		t.Fatalf("tax_due = %s", decoded.Tax.Annual.TaxDue)
	}
	if !bytes.Contains(out, []byte(`"period_end_date": "2026-10-31T00:00:00Z"`)) {
		t.Fatalf("expected RFC3339 period end dates")
	}
}

func TestCSVFormatterSchedule(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected header + 9 rows, got %d", len(records))
	}
	jan := records[4]
	if jan[1] != "2027-01-31" || jan[3] != "4500.00" {
		t.Fatalf("unexpected January row: %v", jan)
	}
	if !strings.Contains(jan[4], "Tax payment 2027-01-31; 1st payment on account 2027-01-31") {
		t.Fatalf("unexpected payment details: %q", jan[4])
	}
	if last := records[9]; last[5] != "0.00" {
		t.Fatalf("final balance = %s", last[5])
	}
}

func TestCSVFormatterBands(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildPartialReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 bands, got %d", len(lines))
	}
	if lines[4] != "Additional rate,150000.00,,0.45,0.00,0.00" {
		t.Fatalf("unexpected final band row: %q", lines[4])
	}
}

func TestPDFFormatter(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF document")
	}
	if _, err := (PDFFormatter{}).Format(buildPartialReport(t)); err != nil {
		t.Fatalf("partial pdf: %v", err)
	}
}

func TestFormattersRejectEmptyReport(t *testing.T) {
	for _, f := range builtInFormatters {
		if _, err := f.Format(&domain.Report{}); !errors.Is(err, ErrEmptyReport) {
			t.Fatalf("%s: expected ErrEmptyReport, got %v", f.Name(), err)
		}
		if _, err := f.Format(nil); !errors.Is(err, ErrEmptyReport) {
			t.Fatalf("%s: expected ErrEmptyReport for nil, got %v", f.Name(), err)
		}
	}
}

// Golden snapshot tests (prefix-based) ensure CSV headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name   string
		golden string
		report *domain.Report
	}{
		{"csv_schedule", "csv_schedule.golden", buildTestReport(t)},
		{"csv_bands", "csv_bands.golden", buildPartialReport(t)},
	}

	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := CSVFormatter{}.Format(tc.report)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestFormatterAliasResolution(t *testing.T) {
	cases := map[string]string{"TEXT": "console", " json-pretty ": "json", "schedule": "csv", "pdf": "pdf"}
	for alias, want := range cases {
		f := GetFormatterByName(alias)
		if f == nil {
			t.Fatalf("alias %q did not resolve to a formatter", alias)
		}
		if f.Name() != want {
			t.Fatalf("alias %q resolved to %q, want %q", alias, f.Name(), want)
		}
	}
	if GetFormatterByName("html") != nil {
		t.Fatalf("html is not a registered formatter")
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := GenerateReport(buildTestReport(t), "definitely-not-a-format")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "unsupported report format") || !strings.Contains(msg, "Try one of: console, csv, json, pdf") {
		t.Fatalf("error message missing suggestions: %s", msg)
	}
}

func TestWriteAndSaveFormatted(t *testing.T) {
	report := buildTestReport(t)

	var buf bytes.Buffer
	if err := WriteFormatted(JSONFormatter{}, report, &buf); err != nil {
		t.Fatalf("WriteFormatted: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("{")) {
		t.Fatalf("expected JSON object")
	}

	path := filepath.Join(t.TempDir(), "plan.csv")
	got, err := SaveFormatted(CSVFormatter{}, report, path)
	if err != nil {
		t.Fatalf("SaveFormatted: %v", err)
	}
	if got != path {
		t.Fatalf("SaveFormatted returned %q, want %q", got, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if ext := FileExtension(ConsoleFormatter{}); ext != "txt" {
		t.Fatalf("console extension = %q", ext)
	}
	if ext := FileExtension(FormatterFunc{ID: "custom"}); ext != "out" {
		t.Fatalf("custom extension = %q", ext)
	}
}
