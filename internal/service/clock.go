package service

import (
	"time"

	"github.com/mtlprog/khomvg/internal/domain"
)

// Clock yields "today" in the business time zone.
type Clock struct {
	now      func() time.Time
	location *time.Location
}

// NewClock creates a Clock reading the system time in loc.
// A nil loc means UTC.
func NewClock(loc *time.Location) Clock {
	return NewClockFunc(time.Now, loc)
}

// NewClockFunc creates a Clock backed by an arbitrary time source (tests).
func NewClockFunc(now func() time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: now, location: loc}
}

// FixedClock always returns the given date.
func FixedClock(today domain.Date) Clock {
	return NewClockFunc(func() time.Time { return today.Time() }, time.UTC)
}

// Today returns the current calendar date.
func (c Clock) Today() domain.Date {
	if c.now == nil {
		return domain.DateOf(time.Now().In(c.loc()))
	}
	return domain.DateOf(c.now().In(c.loc()))
}

func (c Clock) loc() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Location returns the business time zone.
func (c Clock) Location() *time.Location {
	return c.loc()
}
