package acmimodel

import "time"

// TimeSpan is a pair of absolute instants. The zero value is invalid:
// both Start and End must be non-zero time.Time values for Valid to
// report true.
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether both endpoints are set.
func (s TimeSpan) Valid() bool {
	return !s.Start.IsZero() && !s.End.IsZero()
}

// Duration reports the span length in seconds. Zero if the span is
// invalid.
func (s TimeSpan) Duration() float64 {
	if !s.Valid() {
		return 0
	}
	return s.End.Sub(s.Start).Seconds()
}

// Contains reports whether t falls within [Start, End], inclusive.
func (s TimeSpan) Contains(t time.Time) bool {
	if !s.Valid() {
		return false
	}
	return !t.Before(s.Start) && !t.After(s.End)
}
