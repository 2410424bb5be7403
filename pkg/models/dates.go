package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// InvalidDate is returned by FormatDate when no known layout matches.
	InvalidDate = "Invalid date"
	// NoDate is returned by FormatDate for blank input.
	NoDate = "No date"

	// ISODate is the layout used when writing dates back to the sheet.
	ISODate = "2006-01-02"
	// DisplayDate is the layout used for human-facing output.
	DisplayDate = "02/01/2006"
)

// dateLayouts is tried in order. Day-first wins over month-first when both
// would parse, matching how the sheets are filled in.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	ISODate,
	"02/01/2006", // dd/MM/yyyy
	"2/1/2006",
	"01/02/2006", // MM/dd/yyyy
	"1/2/2006",
}

// ParseDate parses a loosely formatted date cell.
func ParseDate(value string) (time.Time, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
}

// FormatDate renders a date cell as dd/MM/yyyy. It never fails: blank input
// gives NoDate and unparseable input gives InvalidDate.
func FormatDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return NoDate
	}
	t, err := ParseDate(value)
	if err != nil {
		return InvalidDate
	}
	return t.Format(DisplayDate)
}

// DateOnly strips the clock from t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// PeriodLabel renders a billing window as "01 Jan - 07 Jan 2024".
func PeriodLabel(start, end time.Time) string {
	return start.Format("02 Jan") + " - " + end.Format("02 Jan 2006")
}
