package domain

// Dates are accepted only inside this window.
const (
	MinYear = 2000
	MaxYear = 2030
)

// monthDays ends with a sentinel used for any month outside 1-12.
var monthDays = [13]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, -1}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year, or -1 when month is
// not in 1-12.
func DaysInMonth(month, year int) int {
	idx := month - 1
	if month < 1 || month > 12 {
		idx = len(monthDays) - 1
	}

	days := monthDays[idx]
	if month == 2 && IsLeapYear(year) {
		days++
	}
	return days
}
