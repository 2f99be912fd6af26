package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
)

// PaymentKind tags an obligation with the self-assessment payment it represents
type PaymentKind string

const (
	PaymentOther                  PaymentKind = ""
	PaymentBalancing              PaymentKind = "balancing_payment"
	PaymentFirstPaymentOnAccount  PaymentKind = "first_payment_on_account"
	PaymentSecondPaymentOnAccount PaymentKind = "second_payment_on_account"
)

// Label returns a human readable name for the payment kind
func (k PaymentKind) Label() string {
	switch k {
	case PaymentBalancing:
		return "Tax payment"
	case PaymentFirstPaymentOnAccount:
		return "1st payment on account"
	case PaymentSecondPaymentOnAccount:
		return "2nd payment on account"
	default:
		return "Payment"
	}
}

// Obligation is a single discrete tax payment due on a fixed date
type Obligation struct {
	DueDate time.Time       `yaml:"due_date" json:"due_date" toml:"due_date"`
	Amount  decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
	Kind    PaymentKind     `yaml:"kind,omitempty" json:"kind,omitempty" toml:"kind,omitempty"`
	Label   string          `yaml:"label,omitempty" json:"label,omitempty" toml:"label,omitempty"`
}

// NewObligation creates an obligation, rejecting negative amounts and missing dates
func NewObligation(dueDate time.Time, amount decimal.Decimal) (Obligation, error) {
	ob := Obligation{DueDate: dueDate, Amount: amount}
	if err := ob.validate("obligation"); err != nil {
		return Obligation{}, err
	}
	return ob, nil
}

// Description returns the label, falling back to the payment kind
func (o Obligation) Description() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Kind.Label()
}

func (o Obligation) validate(field string) error {
	if o.DueDate.IsZero() {
		return NewValidationError(field+".due_date", "is required")
	}
	if o.Amount.IsNegative() {
		return NewValidationError(field+".amount", "cannot be negative (got %s)", o.Amount.String())
	}
	return nil
}

// Obligations is an ordered sequence of payments, earliest first
type Obligations []Obligation

// Validate checks the sequence is non-empty, sorted by due date and free of negative amounts
func (obs Obligations) Validate() error {
	if len(obs) == 0 {
		return fmt.Errorf("%w: no payment obligations supplied", ErrInvalidHorizon)
	}
	for i, ob := range obs {
		field := fmt.Sprintf("obligations[%d]", i)
		if err := ob.validate(field); err != nil {
			return err
		}
		if i > 0 && ob.DueDate.Before(obs[i-1].DueDate) {
			return NewValidationError(field+".due_date", "%s is earlier than the previous obligation (%s); obligations must be sorted by due date",
				ob.DueDate.Format("2006-01-02"), obs[i-1].DueDate.Format("2006-01-02"))
		}
	}
	return nil
}

// Total sums every obligation amount
func (obs Obligations) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ob := range obs {
		total = total.Add(ob.Amount)
	}
	return total
}

// CalendarDates returns a copy with every due date moved onto its UTC calendar date
func (obs Obligations) CalendarDates() Obligations {
	if obs == nil {
		return nil
	}
	out := make(Obligations, len(obs))
	for i, ob := range obs {
		ob.DueDate = dateutil.CalendarDate(ob.DueDate)
		out[i] = ob
	}
	return out
}

// Last returns the latest obligation. It panics on an empty sequence; call Validate first.
func (obs Obligations) Last() Obligation {
	return obs[len(obs)-1]
}
