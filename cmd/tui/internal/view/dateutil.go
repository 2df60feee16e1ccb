package view

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD form value as a calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("use the YYYY-MM-DD format")
	}

	return t, nil
}

// InputDate renders t for a date form field.
func InputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(dateLayout)
}

// Today is the current calendar day as picked in a date field.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}
