package store

import (
	"errors"
	"fmt"
	"time"
)

// Due date/time layouts. The combined form is the legacy persisted format:
// dd-mm-yyyy for the date, 12-hour HH:MM with an AM/PM token for the time.
const (
	DateLayout = "02-01-2006"
	TimeLayout = "03:04 PM"

	dueLayout = DateLayout + " " + TimeLayout
)

var (
	ErrBadFormat = errors.New("invalid date/time format")
	ErrPastDue   = errors.New("due date/time already passed")
)

// ValidateDueDate combines the two strings and parses them against the
// fixed due layout. It returns ErrBadFormat when the combined string does
// not parse and ErrPastDue when it parses to a moment strictly before now.
// Callers treat both the same way and only the printed message differs.
func ValidateDueDate(dateText, timeText string) (time.Time, error) {
	due, err := time.ParseInLocation(dueLayout, dateText+" "+timeText, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadFormat, dateText+" "+timeText)
	}
	if due.Before(timeNow()) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrPastDue, due.Format(dueLayout))
	}
	return due, nil
}

// TimeLeft reports the whole days and remaining whole hours until due.
func TimeLeft(due time.Time) (days, hours int) {
	left := due.Sub(timeNow())
	days = int(left / (24 * time.Hour))
	hours = int((left % (24 * time.Hour)) / time.Hour)
	return days, hours
}
