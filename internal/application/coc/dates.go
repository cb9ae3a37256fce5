package coc

import (
	"strings"
	"time"

	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a calendar date, accepting the datetime forms the feed emits
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewDomainError("INVALID_INPUT", "invalid date: "+s+" (expected YYYY-MM-DD)")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
