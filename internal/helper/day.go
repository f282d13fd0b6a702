package helper

import "time"

const DateLayout = "2006-01-02"

// DayRange returns [start of local day, start of next local day) for t.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// LocalDate formats t as the YYYY-MM-DD service day in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDateRange validates a YYYY-MM-DD pair and returns the half-open
// window covering both days entirely.
func ParseDateRange(startDate, endDate string, loc *time.Location) (time.Time, time.Time, bool) {
	start, err1 := time.ParseInLocation(DateLayout, startDate, loc)
	end, err2 := time.ParseInLocation(DateLayout, endDate, loc)
	if err1 != nil || err2 != nil || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end.AddDate(0, 0, 1), true
}
