// internal/service/assignment/normalize.go
package assignment

import (
	"database/sql"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
}

// NormalizeDate reduces a follow-up date to calendar-date form
// (YYYY-MM-DD). Normalization is best effort: input that matches none of
// the accepted layouts is returned as supplied, not rejected.
func NormalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// NormalizeTime reduces a follow-up time to time-of-day form (HH:MM:SS),
// best effort like NormalizeDate.
func NormalizeTime(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
