package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DateLayout is the calendar-day format used in storage and in every payload.
const DateLayout = "2006-01-02"

type ChatMessage struct {
	ID        int64     `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Role      string    `json:"role" db:"role"` // user or assistant
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AvailableDate struct {
	ID   int64     `json:"id" db:"id"`
	Date time.Time `json:"date" db:"date"`
}

// Day returns the date as YYYY-MM-DD.
func (d AvailableDate) Day() string {
	return d.Date.UTC().Format(DateLayout)
}

// Session identifies the conversation a request belongs to.
type Session struct {
	ID string `json:"session_id"`
}

var dayLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDay parses a calendar date in one of the accepted layouts and
// normalises it to midnight UTC.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dayLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
}
