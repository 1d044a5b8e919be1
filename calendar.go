package strptime

import "time"

var daysBeforeMonth = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year int) int {
	if isLeap(year) {
		return 366
	}
	return 365
}

// daysInMonth returns the length of month in year.
func daysInMonth(year, month int) int {
	if month == 12 {
		return 31
	}
	days := daysBeforeMonth[month+1] - daysBeforeMonth[month]
	if month == 2 && isLeap(year) {
		days++
	}
	return days
}

// dayOfYear returns the 1-based ordinal of month/day within year. Out of range
// days are not validated.
func dayOfYear(year, month, day int) int {
	if month < 1 || month > 12 {
		month = 1
	}
	yday := daysBeforeMonth[month] + day
	if month > 2 && isLeap(year) {
		yday++
	}
	return yday
}

// fromDayOfYear converts an ordinal day into a Gregorian date, rolling over
// into the following or preceding year when yday is outside the year.
func fromDayOfYear(year, yday int) (int, int, int) {
	for yday > daysInYear(year) {
		yday -= daysInYear(year)
		year++
	}
	for yday < 1 {
		year--
		yday += daysInYear(year)
	}

	month := 12
	for m := 2; m <= 12; m++ {
		before := daysBeforeMonth[m]
		if m > 2 && isLeap(year) {
			before++
		}
		if yday <= before {
			month = m - 1
			break
		}
	}

	before := daysBeforeMonth[month]
	if month > 2 && isLeap(year) {
		before++
	}
	return year, month, yday - before
}

// weekdayOf returns the weekday with Monday as 0.
func weekdayOf(year, month, day int) int {
	wd := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Weekday()
	return mondayFirst(int(wd))
}

// mondayFirst converts a Sunday=0 weekday into Monday=0.
func mondayFirst(sundayFirst int) int {
	return (sundayFirst + 6) % 7
}

// dayOfYearFromWeek computes the ordinal day for a %U or %W week number and a
// Monday=0 weekday. The result may fall outside year and is normalised by
// fromDayOfYear.
func dayOfYearFromWeek(year, week, weekday int, mondayStart bool) int {
	first := weekdayOf(year, 1, 1)
	if !mondayStart {
		first = (first + 1) % 7
		weekday = (weekday + 1) % 7
	}
	if week == 0 {
		return 1 + weekday - first
	}
	weekZero := (7 - first) % 7
	return 1 + weekZero + 7*(week-1) + weekday
}
