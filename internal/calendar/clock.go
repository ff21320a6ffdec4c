package calendar

import "time"

// Clock reports the current calendar date. Reservation rules ask the clock at
// the instant of each check.
type Clock interface {
	Today() Date
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() Date

// Today implements Clock.
func (f ClockFunc) Today() Date { return f() }

// SystemClock derives today's date from the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewSystemClock returns a clock for loc. A nil loc means time.Local.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{Location: loc, Now: time.Now}
}

// Today implements Clock.
func (c SystemClock) Today() Date {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now().In(loc))
}

// Fixed returns a clock that always reports d.
func Fixed(d Date) Clock {
	return ClockFunc(func() Date { return d })
}
