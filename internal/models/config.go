package models

import (
	"strings"
	"time"

	"backend-antrian-pst/internal/helper"
)

// Config is the single opening-hours row. Clocks are HH:MM:SS in the
// service timezone.
type Config struct {
	ID       int64  `json:"id"`
	JamBuka  string `json:"jam_buka"`
	JamTutup string `json:"jam_tutup"`
}

// OpenAt reports whether self-service intake is accepted at now.
func (c Config) OpenAt(now time.Time, loc *time.Location) bool {
	return helper.IsQueueOpen(now, c.JamBuka, c.JamTutup, loc)
}

type UpdateConfigRequest struct {
	JamBuka  string `json:"jam_buka" validate:"required"`
	JamTutup string `json:"jam_tutup" validate:"required"`
}

// Normalized expands HH:MM, as sent by browser time inputs, to HH:MM:SS.
func (r UpdateConfigRequest) Normalized() UpdateConfigRequest {
	return UpdateConfigRequest{JamBuka: withSeconds(r.JamBuka), JamTutup: withSeconds(r.JamTutup)}
}

func withSeconds(clock string) string {
	clock = strings.TrimSpace(clock)
	if len(clock) == 5 && strings.Count(clock, ":") == 1 {
		return clock + ":00"
	}
	return clock
}
