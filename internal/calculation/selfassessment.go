package calculation

import (
	"time"

	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// SelfAssessmentObligations lays out self-assessment payments as dated obligations.
//
// For the calendar year of asOf, the balancing payment and 1st payment on
// account (31 January) are included only while 31 January has not passed, and
// the 2nd payment on account (31 July) only while 31 July has not passed. The
// following year always contributes all three. The result is sorted.
func SelfAssessmentObligations(asOf time.Time, in domain.SelfAssessmentInput) domain.Obligations {
	today := dateutil.CalendarDate(asOf)
	year := today.Year()
	loc := today.Location()

	var obs domain.Obligations
	add := func(due time.Time, kind domain.PaymentKind, amounts domain.SelfAssessmentAmounts) {
		ob := domain.Obligation{DueDate: due, Kind: kind}
		switch kind {
		case domain.PaymentBalancing:
			ob.Amount = amounts.BalancingPayment
		case domain.PaymentFirstPaymentOnAccount:
			ob.Amount = amounts.FirstPaymentOnAccount
		case domain.PaymentSecondPaymentOnAccount:
			ob.Amount = amounts.SecondPaymentOnAccount
		}
		obs = append(obs, ob)
	}

	january := time.Date(year, time.January, 31, 0, 0, 0, 0, loc)
	july := time.Date(year, time.July, 31, 0, 0, 0, 0, loc)
	if !today.After(january) {
		add(january, domain.PaymentBalancing, in.CurrentYear)
		add(january, domain.PaymentFirstPaymentOnAccount, in.CurrentYear)
	}
	if !today.After(july) {
		add(july, domain.PaymentSecondPaymentOnAccount, in.CurrentYear)
	}

	nextJanuary := january.AddDate(1, 0, 0)
	nextJuly := july.AddDate(1, 0, 0)
	add(nextJanuary, domain.PaymentBalancing, in.NextYear)
	add(nextJanuary, domain.PaymentFirstPaymentOnAccount, in.NextYear)
	add(nextJuly, domain.PaymentSecondPaymentOnAccount, in.NextYear)

	return obs
}
