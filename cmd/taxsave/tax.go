package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

var (
	flagSalary    string
	flagDividends string
)

var taxCmd = &cobra.Command{
	Use:   "tax [request.yaml]",
	Short: "Estimate tax on a full year of salary and dividends",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTax,
}

func init() {
	taxCmd.Flags().StringVar(&flagSalary, "salary", "0", "Annual salary")
	taxCmd.Flags().StringVar(&flagDividends, "dividends", "0", "Annual dividends")
	rootCmd.AddCommand(taxCmd)
}

func runTax(_ *cobra.Command, args []string) error {
	cfg := loadSettings()
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	var req *domain.Request
	if len(args) == 1 {
		if req, err = loadRequest(args[0]); err != nil {
			return err
		}
		if req.Tax == nil {
			return fmt.Errorf("%s has no tax section", args[0])
		}
	} else {
		asOf, err := referenceDate()
		if err != nil {
			return err
		}
		salary, err := parseAmount("salary", flagSalary)
		if err != nil {
			return err
		}
		dividends, err := parseAmount("dividends", flagDividends)
		if err != nil {
			return err
		}
		req = &domain.Request{AsOf: asOf, Tax: &domain.TaxRequest{
			Annual: &domain.IncomeEstimate{Salary: salary, Dividends: dividends},
		}}
	}

	resolved := req.Resolved()
	tax, err := engine.RunTax(resolved.Tax)
	if err != nil {
		return err
	}
	return emit(cfg, &domain.Report{AsOf: resolved.AsOf, Tax: tax})
}
