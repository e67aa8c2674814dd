package calc

import "time"

const (
	buddhistEraOffset = 543
	dayKeyLayout      = "2006-01-02"
)

// FiscalYear returns the Thai government fiscal year of d in Buddhist era.
// The fiscal year starts on October 1 and is named after the calendar year it ends in.
func FiscalYear(d time.Time) int {
	year := d.Year()
	if d.Month() >= time.October {
		year++
	}
	return year + buddhistEraOffset
}

// FiscalYearStart returns October 1 of the fiscal year containing d.
func FiscalYearStart(d time.Time) time.Time {
	year := d.Year()
	if d.Month() < time.October {
		year--
	}
	return time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of the month at UTC midnight.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func DaysInMonth(year, month int) int {
	_, end := MonthBounds(year, month)
	return end.Day()
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
