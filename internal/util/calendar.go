package util

import "time"

// NextMonth returns the year and month for the following month.
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PreviousMonth returns the year and month for the preceding month.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// AddMonths walks n months forward from (year, month).
func AddMonths(year, month, n int) (int, int) {
	month += n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	return year, month
}

// IsHistoricalMonth reports whether (year, month) is before the month of ref.
func IsHistoricalMonth(year, month int, ref time.Time) bool {
	refYear, refMonth := ref.Year(), int(ref.Month())
	if year < refYear {
		return true
	}
	return year == refYear && month < refMonth
}
