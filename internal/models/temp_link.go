package models

import "time"

type TempVisitorLink struct {
	UUID      string    `json:"uuid"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the link can still open a form session at now.
func (l TempVisitorLink) Usable(now time.Time) bool {
	return !l.Used && now.Before(l.ExpiresAt)
}
