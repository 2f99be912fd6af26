package dateutil

import (
	"fmt"
	"time"
)

// TaxYearStartMonth and TaxYearStartDay mark the first day of the English tax year (6 April).
const (
	TaxYearStartMonth = time.April
	TaxYearStartDay   = 6
)

// DaysPerPlanningMonth is the bucket size used when approximating a month count from a day span.
const DaysPerPlanningMonth = 30

// DateOf strips the clock from t, keeping its calendar date and location
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CalendarDate returns the calendar date t falls on, as midnight UTC.
// Dates decoded with different offsets then compare by day. The zero time is kept.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from one date to another.
// Clock times are ignored, so a DST change never shortens a day.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ThirtyDayPeriods returns floor(days / 30) between two dates.
// This is an approximation of a month count, not calendar-month arithmetic.
// Negative spans return a non-positive count.
func ThirtyDayPeriods(from, to time.Time) int {
	days := DaysBetween(from, to)
	if days < 0 {
		return -((-days + DaysPerPlanningMonth - 1) / DaysPerPlanningMonth)
	}
	return days / DaysPerPlanningMonth
}

// CalendarMonthsBetween counts whole calendar months from one date to another
func CalendarMonthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

// EndOfMonth returns the last calendar day of the month containing date
func EndOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location())
}

// MonthEnds returns n consecutive month-end dates, starting with the end of start's month.
func MonthEnds(start time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	ends := make([]time.Time, n)
	for i := 0; i < n; i++ {
		first := time.Date(start.Year(), start.Month()+time.Month(i), 1, 0, 0, 0, 0, start.Location())
		ends[i] = EndOfMonth(first)
	}
	return ends
}

// TaxYearStart returns 6 April of the tax year containing date
func TaxYearStart(date time.Time) time.Time {
	year := date.Year()
	start := time.Date(year, TaxYearStartMonth, TaxYearStartDay, 0, 0, 0, 0, date.Location())
	if DateOf(date).Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return start
}

// TaxYearEnd returns 5 April closing the tax year containing date
func TaxYearEnd(date time.Time) time.Time {
	return TaxYearStart(date).AddDate(1, 0, -1)
}

// MonthsElapsedInTaxYear returns how many tax months (6th to 5th) have started
// by date, counting the current one. The result is always in [1, 12].
func MonthsElapsedInTaxYear(date time.Time) int {
	start := TaxYearStart(date)
	months := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
	if date.Day() >= TaxYearStartDay {
		months++
	}
	return months
}

// RemainingMonthsInTaxYear returns 12 minus the elapsed tax months.
// It is zero during the final tax month (6 March to 5 April).
func RemainingMonthsInTaxYear(date time.Time) int {
	return 12 - MonthsElapsedInTaxYear(date)
}

// TaxYearLabel formats a tax year by its starting calendar year, e.g. 2026 -> "2026/27"
func TaxYearLabel(startYear int) string {
	return fmt.Sprintf("%d/%02d", startYear, (startYear+1)%100)
}
