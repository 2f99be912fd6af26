package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
)

func sampleSelfAssessment() domain.SelfAssessmentInput {
	return domain.SelfAssessmentInput{
		CurrentYear: domain.SelfAssessmentAmounts{
			BalancingPayment:       dec(2000),
			FirstPaymentOnAccount:  dec(1000),
			SecondPaymentOnAccount: dec(1000),
		},
		NextYear: domain.SelfAssessmentAmounts{
			BalancingPayment:       dec(3000),
			FirstPaymentOnAccount:  dec(1500),
			SecondPaymentOnAccount: dec(1500),
		},
	}
}

// TestSelfAssessmentObligations tests which payments are still ahead at different points in the year
func TestSelfAssessmentObligations(t *testing.T) {
	tests := []struct {
		name          string
		asOf          time.Time
		expectedDates []time.Time
	}{
		{
			name: "Early January includes every payment",
			asOf: day(2026, 1, 15),
			expectedDates: []time.Time{
				day(2026, 1, 31), day(2026, 1, 31), day(2026, 7, 31),
				day(2027, 1, 31), day(2027, 1, 31), day(2027, 7, 31),
			},
		},
		{
			name: "On the January deadline",
			asOf: day(2026, 1, 31),
			expectedDates: []time.Time{
				day(2026, 1, 31), day(2026, 1, 31), day(2026, 7, 31),
				day(2027, 1, 31), day(2027, 1, 31), day(2027, 7, 31),
			},
		},
		{
			name:          "Spring drops the January payments",
			asOf:          day(2026, 3, 1),
			expectedDates: []time.Time{day(2026, 7, 31), day(2027, 1, 31), day(2027, 1, 31), day(2027, 7, 31)},
		},
		{
			name:          "Autumn only plans next year",
			asOf:          day(2026, 10, 14),
			expectedDates: []time.Time{day(2027, 1, 31), day(2027, 1, 31), day(2027, 7, 31)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := SelfAssessmentObligations(tt.asOf, sampleSelfAssessment())
			require.NoError(t, obs.Validate())
			dates := make([]time.Time, len(obs))
			for i, ob := range obs {
				dates[i] = ob.DueDate
			}
			assert.Equal(t, tt.expectedDates, dates)
		})
	}
}

func TestSelfAssessmentObligationAmounts(t *testing.T) {
	obs := SelfAssessmentObligations(day(2026, 3, 1), sampleSelfAssessment())
	require.Len(t, obs, 4)

	assert.Equal(t, domain.PaymentSecondPaymentOnAccount, obs[0].Kind)
	assert.True(t, obs[0].Amount.Equal(dec(1000)))
	assert.Equal(t, domain.PaymentBalancing, obs[1].Kind)
	assert.True(t, obs[1].Amount.Equal(dec(3000)))
	assert.Equal(t, domain.PaymentFirstPaymentOnAccount, obs[2].Kind)
	assert.True(t, obs[2].Amount.Equal(dec(1500)))
	assert.True(t, obs.Total().Equal(dec(7000)))
}
