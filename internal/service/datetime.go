package service

import (
	"strings"
	"time"
)

// TimestampLayout is how every timestamp leaves the service: ISO 8601 in UTC
// with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Accepted dueAt layouts. Inputs without a zone are read as UTC. Fractional
// seconds are accepted after the seconds field by time.Parse.
var dueAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime parses an ISO 8601 date-time strictly. It reports false for
// anything outside the accepted layouts.
func ParseDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dueAtLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return normalizeTime(t), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way todos are serialized.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
