package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/calculation"
	"github.com/tomsentry/tax-savings-tool/internal/config"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/internal/output"
)

var (
	flagFormat   string
	flagOutput   string
	flagAsOf     string
	flagBrackets string
	flagVerbose  bool
)

// stdout is swapped out in tests
var stdout io.Writer = os.Stdout

var rootCmd = &cobra.Command{
	Use:           "taxsave",
	Short:         "Tax savings planner",
	Long:          "Plan equal monthly savings for upcoming tax payments and estimate tax on salary and dividends.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format (console, json, csv, pdf); defaults to the settings file")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Write the report to this file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Reference date YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().StringVar(&flagBrackets, "brackets", "", "YAML or TOML file with a custom bracket schedule")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log calculation steps to stderr")
}

func newLogger() calculation.Logger {
	if flagVerbose {
		return calculation.NewStdLogger(os.Stderr, true)
	}
	return calculation.NopLogger{}
}

func loadSettings() config.Settings {
	cfg, err := config.LoadSettings()
	if err != nil {
		newLogger().Warnf("ignoring settings file: %v", err)
		return config.DefaultSettings()
	}
	return cfg
}

// buildEngine picks the bracket schedule: --brackets file, then settings, then the default
func buildEngine(cfg config.Settings) (*calculation.CalculationEngine, error) {
	schedule := cfg.Tax.Brackets
	if flagBrackets != "" {
		loaded, err := config.NewInputParser().LoadBrackets(flagBrackets)
		if err != nil {
			return nil, err
		}
		schedule = loaded
	}

	engine, err := calculation.NewCalculationEngineWithSchedule(schedule)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(newLogger())
	return engine, nil
}

// referenceDate parses --as-of, defaulting to today
func referenceDate() (time.Time, error) {
	if flagAsOf == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return parseDate("as-of", flagAsOf)
}

func parseDate(name, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, value)
	}
	return t, nil
}

// loadRequest reads a request file; --as-of overrides the file's reference date
func loadRequest(path string) (*domain.Request, error) {
	req, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if flagAsOf != "" {
		asOf, err := referenceDate()
		if err != nil {
			return nil, err
		}
		req.AsOf = asOf
	}
	return req, nil
}

// emit formats a report and writes it to --output or stdout. PDF output is
// never written to a terminal; without --output it goes to a timestamped file.
func emit(cfg config.Settings, report *domain.Report) error {
	format := flagFormat
	if format == "" {
		format = cfg.Output.Format
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		_, err := output.GenerateReport(report, format)
		return err
	}

	if flagOutput != "" || f.Name() == "pdf" {
		path, err := output.SaveFormatted(f, report, flagOutput)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
		return nil
	}
	return output.WriteFormatted(f, report, stdout)
}
