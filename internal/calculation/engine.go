package calculation

import (
	"errors"
	"fmt"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

// CalculationEngine runs complete requests through the savings scheduler and
// the tax estimator. The two calculators share nothing; the engine only routes
// request fields to them.
type CalculationEngine struct {
	Scheduler *SavingsScheduler
	Estimator *TaxEstimator
	Logger    Logger
}

// NewCalculationEngine creates an engine with the 30-day horizon rule and the default bracket schedule
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Scheduler: NewSavingsScheduler(),
		Estimator: NewDefaultTaxEstimator(),
		Logger:    NopLogger{},
	}
}

// NewCalculationEngineWithSchedule creates an engine whose default bracket schedule is replaced
func NewCalculationEngineWithSchedule(schedule domain.BracketSchedule) (*CalculationEngine, error) {
	estimator, err := NewTaxEstimator(schedule)
	if err != nil {
		return nil, err
	}
	ce := NewCalculationEngine()
	ce.Estimator = estimator
	return ce, nil
}

// SetLogger sets the logger for the engine and its calculators. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	l = orNop(l)
	ce.Logger = l
	ce.Scheduler.Logger = l
	ce.Estimator.Logger = l
}

// Run resolves request dates against AsOf and runs whichever calculations the request asks for
func (ce *CalculationEngine) Run(req *domain.Request) (*domain.Report, error) {
	if req == nil || (req.Plan == nil && req.Tax == nil) {
		return nil, domain.NewValidationError("request", "must contain a plan or a tax section")
	}
	resolved := req.Resolved()
	report := &domain.Report{AsOf: resolved.AsOf}

	if resolved.Plan != nil {
		plan, err := ce.RunPlan(resolved.Plan)
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
		report.Plan = plan
	}
	if resolved.Tax != nil {
		tax, err := ce.RunTax(resolved.Tax)
		if err != nil {
			return nil, fmt.Errorf("tax: %w", err)
		}
		report.Tax = tax
	}
	return report, nil
}

// RunPlan builds the savings plan for a request, deriving obligations from
// self-assessment amounts when no explicit obligations are given.
func (ce *CalculationEngine) RunPlan(req *domain.PlanRequest) (*domain.SavingsPlan, error) {
	obligations := req.Obligations
	if req.SelfAssessment != nil {
		if len(req.Obligations) > 0 {
			return nil, domain.NewValidationError("plan", "specify either obligations or self_assessment, not both")
		}
		if req.StartDate.IsZero() {
			return nil, domain.NewValidationError("start_date", "is required")
		}
		obligations = SelfAssessmentObligations(req.StartDate, *req.SelfAssessment)
	}

	orNop(ce.Logger).Infof("computing savings plan from %s with %d obligations", req.StartDate.Format("2006-01-02"), len(obligations))
	return ce.Scheduler.ComputePlan(req.OpeningBalance, obligations, req.StartDate)
}

// RunTax estimates tax for either an annual or a partial-year request
func (ce *CalculationEngine) RunTax(req *domain.TaxRequest) (*domain.TaxReport, error) {
	if (req.Annual == nil) == (req.Partial == nil) {
		return nil, domain.NewValidationError("tax", "specify exactly one of annual or partial income")
	}

	estimator := ce.Estimator
	if len(req.Brackets) > 0 {
		custom, err := NewTaxEstimator(req.Brackets)
		if err != nil {
			return nil, err
		}
		custom.Logger = orNop(ce.Logger)
		estimator = custom
	}
	report := &domain.TaxReport{Brackets: estimator.Schedule}

	if req.Annual != nil {
		est, err := estimator.EstimateTax(*req.Annual)
		if err != nil {
			return nil, err
		}
		report.Annual = est
		rate, err := SavingsRate(est.TaxDue, est.TotalIncome)
		switch {
		case errors.Is(err, domain.ErrDivisionByZero):
			// No income: the estimate stands, the percentage is left unset
			orNop(ce.Logger).Warnf("no savings rate: %v", err)
		case err != nil:
			return nil, err
		default:
			report.SavingsRatePercent = &rate
		}
		return report, nil
	}

	est, err := estimator.EstimateTaxPartial(*req.Partial)
	if err != nil {
		return nil, err
	}
	report.Partial = est
	return report, nil
}
