package timeutil

import (
	"time"
)

// Plant is the foundry's local time zone. Shift windows are defined against
// the wall clock at the plant, not the server's zone.
var Plant *time.Location

func init() {
	var err error
	Plant, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Fallback: fixed zone if the tz database is unavailable
		Plant = time.FixedZone("MSK", 3*60*60) // UTC+3
	}
}

// Now returns the current time at the plant
func Now() time.Time {
	return time.Now().In(Plant)
}

// Common layouts
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Shift window boundaries. Shift 1 runs 07:00-19:00, shift 2 runs
// 19:00-07:00 the next day.
const (
	Shift1Start = "07:00"
	Shift1End   = "19:00"
	Shift2Start = "19:00"
	Shift2End   = "07:00"
)

// ParseDate parses a YYYY-MM-DD calendar date in the plant zone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Plant)
}

// Today returns today's date at the plant as YYYY-MM-DD.
func Today() string {
	return Now().Format(DateLayout)
}

// Clock returns the current wall clock at the plant as HH:MM.
func Clock() string {
	return Now().Format(ClockLayout)
}

// PreviousDay returns the calendar date one day before the given YYYY-MM-DD
// date. Returns the input unchanged if it does not parse.
func PreviousDay(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// ShiftWindow returns the start and end wall-clock times for a shift number.
// Unknown shift numbers get shift 1's window.
func ShiftWindow(shiftNumber int) (start, end string) {
	if shiftNumber == 2 {
		return Shift2Start, Shift2End
	}
	return Shift1Start, Shift1End
}
