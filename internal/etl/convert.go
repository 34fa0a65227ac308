package etl

import (
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// parseSourceDate normalizes the two date encodings seen in source data:
// 8-digit numeric strings (19960322) and ISO strings (1996-03-22). Any other
// shape is rejected; the caller skips the row rather than failing the run.
func parseSourceDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if len(s) == 8 && isDigits(s) {
		t, err := time.Parse("20060102", s)
		return t, err == nil
	}
	t, err := time.Parse(isoDate, s)
	return t, err == nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseAccountNumber converts a free-text counterparty account field to an
// integer, substituting 0 on parse failure or absence.
func parseAccountNumber(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// quarterOf derives the calendar quarter (1-4) from a month (1-12).
func quarterOf(month int) int {
	return (month-1)/3 + 1
}

// textOrDefault substitutes a sentinel for null or empty text fields.
func textOrDefault(s string, valid bool, def string) string {
	if !valid || s == "" {
		return def
	}
	return s
}
