package domain

import (
	"strconv"
	"time"
)

// A Feedback is one community message. Entries are append-only and
// never mutated after creation; the display date is fixed when the
// entry is created.
type Feedback struct {
	ID      int64
	Name    string
	Message string
	Date    string
}

func NewFeedback(name, message string, at time.Time) Feedback {
	return Feedback{
		ID:      at.UnixMilli(),
		Name:    name,
		Message: message,
		Date:    FormatDisplayDate(at),
	}
}

// id-ID short month names.
var shortMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// FormatDisplayDate renders t like "10 Mar 2024".
func FormatDisplayDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " +
		shortMonths[t.Month()-1] + " " +
		strconv.Itoa(t.Year())
}
