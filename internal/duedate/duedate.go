// Package duedate parses task follow-up dates and classifies them relative to now.
package duedate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DueSoonHorizon bounds the "due soon" window.
const DueSoonHorizon = time.Hour

var ErrNoDate = errors.New("no follow-up date")

// Parsed is a follow-up date with its original precision.
type Parsed struct {
	// At is the instant as written; midnight for date-only values.
	At       time.Time
	DateOnly bool
}

// Deadline is the instant the task becomes overdue. Date-only values are due
// at the end of their day.
func (p Parsed) Deadline() time.Time {
	if !p.DateOnly {
		return p.At
	}
	y, m, d := p.At.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, p.At.Location())
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads a follow-up date in any of the shapes the backend stores:
// "2006-01-02", "2006-01-02T15:04[:05]", RFC 3339 or "2006-01-02 15:04:05".
// Values without an offset are interpreted in loc.
func Parse(s string, loc *time.Location) (Parsed, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Parsed{}, ErrNoDate
	}
	if loc == nil {
		loc = time.Local
	}
	if strings.ContainsAny(s, "T ") {
		for _, layout := range dateTimeLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return Parsed{At: t}, nil
			}
		}
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return Parsed{}, fmt.Errorf("parse follow-up date %q: %w", s, err)
	}
	return Parsed{At: t, DateOnly: true}, nil
}

// Valid reports whether s is empty or parseable.
func Valid(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := Parse(s, time.Local)
	return err == nil
}

// SortKey returns the instant used for ordering: date-only values sort at midnight.
// ok is false when s has no usable date.
func SortKey(s string, loc *time.Location) (time.Time, bool) {
	p, err := Parse(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return p.At, true
}

// IsOverdue reports whether a task due at s is overdue at now.
// Closed tasks are never overdue; a deadline equal to now is not overdue.
func IsOverdue(s string, closed bool, now time.Time) bool {
	if closed {
		return false
	}
	p, err := Parse(s, now.Location())
	if err != nil {
		return false
	}
	return p.Deadline().Before(now)
}

// Class is the due-date classification of one task.
type Class struct {
	Overdue         bool
	DueSoon         bool
	DueToday        bool
	MinutesUntilDue float64
}

// Classify applies the backend's notification-check rules locally:
// due soon is 0 < remaining <= DueSoonHorizon, due today is a same-day deadline
// that is neither overdue nor due soon.
func Classify(s string, closed bool, now time.Time) Class {
	var c Class
	if closed {
		return c
	}
	p, err := Parse(s, now.Location())
	if err != nil {
		return c
	}
	deadline := p.Deadline()
	until := deadline.Sub(now)
	c.Overdue = deadline.Before(now)
	if until > 0 && until <= DueSoonHorizon {
		c.DueSoon = true
		c.MinutesUntilDue = until.Minutes()
	}
	if !c.Overdue && until > DueSoonHorizon && sameDay(deadline, now) {
		c.DueToday = true
	}
	return c
}

// OverdueLabel renders how long ago the deadline passed: "1 day overdue",
// "3 hours overdue", "5 minutes overdue". Days count calendar days.
func OverdueLabel(s string, now time.Time) string {
	p, err := Parse(s, now.Location())
	if err != nil {
		return ""
	}
	deadline := p.Deadline()
	if !deadline.Before(now) {
		return ""
	}
	if days := calendarDays(deadline, now); days > 0 {
		return plural(days, "day") + " overdue"
	}
	late := now.Sub(deadline)
	if h := int(late.Hours()); h > 0 {
		return plural(h, "hour") + " overdue"
	}
	m := int(late.Minutes())
	if m < 1 {
		m = 1
	}
	return plural(m, "minute") + " overdue"
}

// Format renders a follow-up date for display: "Jan 2, 2006" or "Jan 2, 2006 15:04".
func Format(s string, loc *time.Location) string {
	if strings.TrimSpace(s) == "" {
		return "No date"
	}
	p, err := Parse(s, loc)
	if err != nil {
		return s
	}
	if p.DateOnly {
		return p.At.Format("Jan 2, 2006")
	}
	return p.At.Format("Jan 2, 2006 15:04")
}

// Clock renders the time of day of s as HH:MM.
func Clock(s string, loc *time.Location) string {
	p, err := Parse(s, loc)
	if err != nil {
		return ""
	}
	return p.Deadline().Format("15:04")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
