package helper

import (
	"strings"
	"time"
)

// IsQueueOpen reports whether now falls inside the opening hours
// [jamBuka, jamTutup) of the day in loc. Hours may wrap past midnight.
func IsQueueOpen(now time.Time, jamBuka, jamTutup string, loc *time.Location) bool {
	now = now.In(loc)

	// Database TIME format bisa HH:MM:SS atau HH:MM
	layout := "15:04:05"
	if strings.Count(jamBuka, ":") == 1 {
		jamBuka += ":00"
	}
	if strings.Count(jamTutup, ":") == 1 {
		jamTutup += ":00"
	}

	openTime, err := time.ParseInLocation(layout, jamBuka, loc)
	if err != nil {
		return false
	}
	closeTime, err := time.ParseInLocation(layout, jamTutup, loc)
	if err != nil {
		return false
	}

	openTime = time.Date(now.Year(), now.Month(), now.Day(),
		openTime.Hour(), openTime.Minute(), openTime.Second(), 0, loc)
	closeTime = time.Date(now.Year(), now.Month(), now.Day(),
		closeTime.Hour(), closeTime.Minute(), closeTime.Second(), 0, loc)

	// Jam tutup melewati tengah malam, contoh: buka 22:00, tutup 02:00
	if closeTime.Before(openTime) {
		closeTime = closeTime.Add(24 * time.Hour)
		if now.Before(openTime) {
			openTime = openTime.Add(-24 * time.Hour)
			closeTime = closeTime.Add(-24 * time.Hour)
		}
	}

	return !now.Before(openTime) && now.Before(closeTime)
}

// ValidClock checks the HH:MM:SS format used by the configs table.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04:05", s)
	return err == nil && len(s) == 8
}
