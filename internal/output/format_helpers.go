package output

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	money "github.com/tomsentry/tax-savings-tool/pkg/decimal"
)

// FormatCurrency formats a decimal as sterling with thousands separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).Format() }

// FormatAmount formats a decimal to pence without symbol or separators, for machine-readable output.
func FormatAmount(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).String() }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional marginal rate (0.4) as a percentage (40%).
func FormatRate(rate decimal.Decimal) string { return rate.Mul(decimalHundred).String() + "%" }

// FormatDate formats a calendar date the way reports print it.
func FormatDate(t time.Time) string { return t.Format("2 Jan 2006") }

var decimalHundred = decimal.NewFromInt(100)

func intToString(v int) string { return strconv.Itoa(v) }
