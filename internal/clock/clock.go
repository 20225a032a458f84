// Package clock provides the time source and the calendar arithmetic of the
// accounts service. Calendar days and weeks are computed in one fixed
// reference location with a configurable first day of the week.
package clock

import (
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// ErrEmptyDate is returned by ParseDate for a blank input.
var ErrEmptyDate = errors.New("empty date")

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// Func adapts an ordinary function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// System is the wall clock.
var System Clock = Func(time.Now)

// Calendar computes day and week boundaries in a fixed location.
type Calendar struct {
	clock  Clock
	config *now.Config
}

// NewCalendar returns a Calendar reading the current time from c and
// computing boundaries in loc, with weeks starting on weekStart.
func NewCalendar(c Clock, loc *time.Location, weekStart time.Weekday) *Calendar {
	if loc == nil {
		loc = time.UTC
	}

	return &Calendar{
		clock: c,
		config: &now.Config{
			WeekStartDay: weekStart,
			TimeLocation: loc,
			TimeFormats:  now.TimeFormats,
		},
	}
}

// Now returns the current instant in the reference location.
func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.config.TimeLocation)
}

// Location returns the reference location.
func (c *Calendar) Location() *time.Location {
	return c.config.TimeLocation
}

func (c *Calendar) at(t time.Time) *now.Now {
	return c.config.With(t.In(c.config.TimeLocation))
}

// StartOfDay returns 00:00:00 of the calendar day containing t.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	return c.at(t).BeginningOfDay()
}

// EndOfDay returns the last nanosecond of the calendar day containing t.
func (c *Calendar) EndOfDay(t time.Time) time.Time {
	return c.at(t).EndOfDay()
}

// StartOfWeek returns 00:00:00 of the first day of the week containing t.
func (c *Calendar) StartOfWeek(t time.Time) time.Time {
	return c.at(t).BeginningOfWeek()
}

// EndOfWeek returns the last nanosecond of the week containing t.
func (c *Calendar) EndOfWeek(t time.Time) time.Time {
	return c.at(t).EndOfWeek()
}

// Day returns the inclusive boundaries of the calendar day containing t.
func (c *Calendar) Day(t time.Time) (time.Time, time.Time) {
	return c.StartOfDay(t), c.EndOfDay(t)
}

// CurrentWeek returns the inclusive boundaries of the current calendar week.
func (c *Calendar) CurrentWeek() (time.Time, time.Time) {
	current := c.Now()
	return c.StartOfWeek(current), c.EndOfWeek(current)
}

// Today returns the start of the current calendar day.
func (c *Calendar) Today() time.Time {
	return c.StartOfDay(c.Now())
}

// ParseDate parses s as an RFC 3339 timestamp or, failing that, as one of the
// layouts understood by jinzhu/now ("2006-01-02", "2006-01-02 15:04", ...)
// interpreted in the reference location.
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(c.config.TimeLocation), nil
	}

	return c.at(c.Now()).Parse(s)
}
