package models

import "time"

// DueStatus classifies an unpaid invoice by how close its due date is.
type DueStatus string

const (
	StatusOverdue DueStatus = "Overdue"
	StatusDueSoon DueStatus = "Due Soon"
	StatusNotDue  DueStatus = "Not Due"
	StatusUnknown DueStatus = "Unknown"
)

// DueSoonWindow is how many days ahead an invoice counts as due soon.
const DueSoonWindow = 7

// StatusFor computes the due status of dueDate relative to now.
func StatusFor(dueDate string, now time.Time) DueStatus {
	due, err := ParseDate(dueDate)
	if err != nil {
		return StatusUnknown
	}

	days := DaysBetween(now, due)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= DueSoonWindow:
		return StatusDueSoon
	default:
		return StatusNotDue
	}
}

// IsOverdue reports whether dueDate lies strictly before today.
func IsOverdue(dueDate string, now time.Time) bool {
	return StatusFor(dueDate, now) == StatusOverdue
}
