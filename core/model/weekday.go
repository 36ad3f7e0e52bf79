package model

import "fmt"

// Weekday identifies one of the five school days sessions can be placed on.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays returns the school days in scheduling order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// String returns a human-readable representation of the weekday.
func (d Weekday) String() string {
	switch d {
	case Monday:
		return "MONDAY"
	case Tuesday:
		return "TUESDAY"
	case Wednesday:
		return "WEDNESDAY"
	case Thursday:
		return "THURSDAY"
	case Friday:
		return "FRIDAY"
	default:
		return "unknown"
	}
}

// ParseWeekday converts a day name to a Weekday.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays() {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Valid reports whether the weekday is one of the five school days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}
