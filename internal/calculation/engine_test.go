package calculation

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) record(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Debugf(format string, args ...any) { r.record("DEBUG", format, args...) }
func (r *recordingLogger) Infof(format string, args ...any)  { r.record("INFO", format, args...) }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.record("WARN", format, args...) }
func (r *recordingLogger) Errorf(format string, args ...any) { r.record("ERROR", format, args...) }

func TestEngineRunPlanAndTax(t *testing.T) {
	engine := NewCalculationEngine()
	req := &domain.Request{
		AsOf: day(2026, 10, 14),
		Plan: &domain.PlanRequest{
			OpeningBalance: dec(1000),
			SelfAssessment: &domain.SelfAssessmentInput{
				NextYear: domain.SelfAssessmentAmounts{
					BalancingPayment:       dec(3000),
					FirstPaymentOnAccount:  dec(1500),
					SecondPaymentOnAccount: dec(1500),
				},
			},
		},
		Tax: &domain.TaxRequest{Annual: &domain.IncomeEstimate{Salary: dec(60000)}},
	}

	report, err := engine.Run(req)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 10, 14), report.AsOf)

	require.NotNil(t, report.Plan)
	assert.Equal(t, 9, report.Plan.HorizonMonths)
	assert.True(t, report.Plan.TotalDue.Equal(dec(5000)))
	assert.Len(t, report.Plan.Obligations, 3)
	assertDecimalNear(t, dec(0), report.Plan.FinalBalance())

	require.NotNil(t, report.Tax)
	require.NotNil(t, report.Tax.Annual)
	assert.True(t, report.Tax.Annual.TaxDue.Equal(dec(11500)))
	require.NotNil(t, report.Tax.SavingsRatePercent)
	assert.Equal(t, "19.17", report.Tax.SavingsRatePercent.StringFixed(2))
	assert.Nil(t, report.Tax.Partial)
}

func TestEngineRunPartialInheritsAsOf(t *testing.T) {
	report, err := NewCalculationEngine().Run(&domain.Request{
		AsOf: day(2026, 10, 14),
		Tax: &domain.TaxRequest{Partial: &domain.PartialIncome{
			SalaryToDate:      dec(35000),
			MonthlySalaryRate: dec(5000),
		}},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Tax.Partial)
	assert.Equal(t, 5, report.Tax.Partial.RemainingMonths)
	assert.True(t, report.Tax.Partial.RecommendedMonthlySaving.Equal(dec(2300)))
}

func TestEngineErrors(t *testing.T) {
	engine := NewCalculationEngine()
	asOf := day(2026, 10, 14)

	tests := []struct {
		name    string
		req     *domain.Request
		wantErr error
	}{
		{"Nil request", nil, domain.ErrInvalidInput},
		{"Empty request", &domain.Request{AsOf: asOf}, domain.ErrInvalidInput},
		{
			"Obligations and self assessment together",
			&domain.Request{AsOf: asOf, Plan: &domain.PlanRequest{
				Obligations:    domain.Obligations{{DueDate: day(2027, 1, 31), Amount: dec(1)}},
				SelfAssessment: &domain.SelfAssessmentInput{},
			}},
			domain.ErrInvalidInput,
		},
		{"Plan with no obligations", &domain.Request{AsOf: asOf, Plan: &domain.PlanRequest{}}, domain.ErrInvalidHorizon},
		{"Tax with no income", &domain.Request{AsOf: asOf, Tax: &domain.TaxRequest{}}, domain.ErrInvalidInput},
		{
			"Tax with both modes",
			&domain.Request{AsOf: asOf, Tax: &domain.TaxRequest{Annual: &domain.IncomeEstimate{}, Partial: &domain.PartialIncome{}}},
			domain.ErrInvalidInput,
		},
		{
			"Partial in final tax month",
			&domain.Request{AsOf: day(2027, 3, 20), Tax: &domain.TaxRequest{Partial: &domain.PartialIncome{}}},
			domain.ErrDivisionByZero,
		},
		{
			"Invalid custom brackets",
			&domain.Request{AsOf: asOf, Tax: &domain.TaxRequest{
				Annual:   &domain.IncomeEstimate{Salary: dec(1)},
				Brackets: domain.BracketSchedule{{Threshold: dec(0), Rate: dec(2)}},
			}},
			domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := engine.Run(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, report)
		})
	}
}

// TestEngineZeroAnnualIncome tests that zero income still yields an estimate, without a savings rate
func TestEngineZeroAnnualIncome(t *testing.T) {
	engine := NewCalculationEngine()
	rec := &recordingLogger{}
	engine.SetLogger(rec)

	report, err := engine.RunTax(&domain.TaxRequest{Annual: &domain.IncomeEstimate{}})
	require.NoError(t, err)
	require.NotNil(t, report.Annual)
	assert.True(t, report.Annual.TaxDue.IsZero())
	assert.Nil(t, report.SavingsRatePercent)

	found := false
	for _, line := range rec.lines {
		if strings.HasPrefix(line, "WARN no savings rate") {
			found = true
		}
	}
	assert.True(t, found, "logged lines: %v", rec.lines)
}

func TestEngineCustomBrackets(t *testing.T) {
	engine, err := NewCalculationEngineWithSchedule(domain.BracketSchedule{
		{Threshold: dec(0), Rate: dec(0.10)},
	})
	require.NoError(t, err)

	report, err := engine.RunTax(&domain.TaxRequest{Annual: &domain.IncomeEstimate{Salary: dec(1000)}})
	require.NoError(t, err)
	assert.True(t, report.Annual.TaxDue.Equal(dec(100)))

	// request brackets override the engine schedule
	report, err = engine.RunTax(&domain.TaxRequest{
		Annual:   &domain.IncomeEstimate{Salary: dec(1000)},
		Brackets: domain.BracketSchedule{{Threshold: dec(0), Rate: dec(0.5)}},
	})
	require.NoError(t, err)
	assert.True(t, report.Annual.TaxDue.Equal(dec(500)))
	assert.Len(t, report.Brackets, 1)

	_, err = NewCalculationEngineWithSchedule(domain.BracketSchedule{{Threshold: dec(-1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngineSetLogger(t *testing.T) {
	engine := NewCalculationEngine()
	rec := &recordingLogger{}
	engine.SetLogger(rec)

	_, err := engine.RunPlan(&domain.PlanRequest{
		StartDate:      day(2026, 10, 14),
		OpeningBalance: dec(0),
		Obligations:    domain.Obligations{{DueDate: day(2027, 1, 31), Amount: dec(900)}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, rec.lines)
	assert.Contains(t, rec.lines[0], "INFO computing savings plan")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
	assert.IsType(t, NopLogger{}, engine.Scheduler.Logger)
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewStdLogger(&buf, false)
	quiet.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())
	quiet.Warnf("shown %d", 2)
	assert.Contains(t, buf.String(), "WARN shown 2")

	buf.Reset()
	NewStdLogger(&buf, true).Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG visible")
}

// TestEngineConcurrentUse runs the same engine from many goroutines; results must not interfere
func TestEngineConcurrentUse(t *testing.T) {
	engine := NewCalculationEngine()
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			salary := dec(float64(50000 + i*1000))
			report, err := engine.RunTax(&domain.TaxRequest{Annual: &domain.IncomeEstimate{Salary: salary}})
			if err != nil {
				errs <- err
				return
			}
			expected := dec(float64(7500 + i*400))
			if !report.Annual.TaxDue.Equal(expected) {
				errs <- fmt.Errorf("salary %s: got %s want %s", salary, report.Annual.TaxDue, expected)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
