package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/calculation"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	money "github.com/tomsentry/tax-savings-tool/pkg/decimal"
)

var (
	flagOpeningBalance string
	flagObligations    []string
	flagCalendarMonths bool
)

var planCmd = &cobra.Command{
	Use:   "plan [request.yaml]",
	Short: "Build a monthly savings plan for upcoming payments",
	Long: `Build a monthly savings plan. Obligations come either from the plan section
of a request file or from repeated --obligation DATE=AMOUNT flags, e.g.

  taxsave plan --opening-balance 1000 --obligation 2027-01-31=4500 --obligation 2027-07-31=1500`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&flagOpeningBalance, "opening-balance", "0", "Amount already saved")
	planCmd.Flags().StringArrayVar(&flagObligations, "obligation", nil, "Payment as DATE=AMOUNT or DATE=AMOUNT:label (repeatable)")
	planCmd.Flags().BoolVar(&flagCalendarMonths, "calendar-months", false, "Count whole calendar months instead of 30-day periods")
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, args []string) error {
	cfg := loadSettings()
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	if flagCalendarMonths {
		engine.Scheduler.Horizon = calculation.CalendarMonthHorizon
	}

	var req *domain.Request
	if len(args) == 1 {
		if len(flagObligations) > 0 {
			return fmt.Errorf("--obligation cannot be combined with a request file")
		}
		if req, err = loadRequest(args[0]); err != nil {
			return err
		}
		if req.Plan == nil {
			return fmt.Errorf("%s has no plan section", args[0])
		}
	} else {
		if req, err = planRequestFromFlags(); err != nil {
			return err
		}
	}

	resolved := req.Resolved()
	plan, err := engine.RunPlan(resolved.Plan)
	if err != nil {
		return err
	}
	return emit(cfg, &domain.Report{AsOf: resolved.AsOf, Plan: plan})
}

func planRequestFromFlags() (*domain.Request, error) {
	asOf, err := referenceDate()
	if err != nil {
		return nil, err
	}
	opening, err := parseAmount("opening-balance", flagOpeningBalance)
	if err != nil {
		return nil, err
	}
	if len(flagObligations) == 0 {
		return nil, fmt.Errorf("at least one --obligation or a request file is required")
	}

	obligations := make(domain.Obligations, 0, len(flagObligations))
	for _, raw := range flagObligations {
		ob, err := parseObligation(raw)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, ob)
	}
	sort.SliceStable(obligations, func(i, j int) bool { return obligations[i].DueDate.Before(obligations[j].DueDate) })

	return &domain.Request{
		AsOf: asOf,
		Plan: &domain.PlanRequest{StartDate: asOf, OpeningBalance: opening, Obligations: obligations},
	}, nil
}

// parseObligation reads DATE=AMOUNT with an optional :label suffix
func parseObligation(raw string) (domain.Obligation, error) {
	date, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return domain.Obligation{}, fmt.Errorf("--obligation: expected DATE=AMOUNT, got %q", raw)
	}
	amount, label, _ := strings.Cut(rest, ":")

	due, err := parseDate("obligation", strings.TrimSpace(date))
	if err != nil {
		return domain.Obligation{}, err
	}
	value, err := parseAmount("obligation", amount)
	if err != nil {
		return domain.Obligation{}, err
	}
	ob, err := domain.NewObligation(due, value)
	if err != nil {
		return domain.Obligation{}, err
	}
	ob.Label = strings.TrimSpace(label)
	return ob, nil
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	m, err := money.NewMoneyFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", name, value)
	}
	return m.Decimal, nil
}
