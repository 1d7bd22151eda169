package model

import "time"

const DateTimeLayout = "Jan 2, 2006, 3:04 PM"

// FormatDateTime renders an appointment time for pages and text messages
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout)
}
