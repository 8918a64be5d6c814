package duedate

import (
	"testing"
	"time"
)

func TestParse_Shapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		dateOnly bool
		want     time.Time
	}{
		{in: "2024-01-01", dateOnly: true, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T10:00", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T10:00:30", want: time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)},
		{in: "2024-01-01 10:00:30", want: time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)},
		{in: "2024-01-01T10:00:00Z", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		p, err := Parse(tc.in, time.UTC)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if p.DateOnly != tc.dateOnly || !p.At.Equal(tc.want) {
			t.Fatalf("Parse(%q) = %#v, want %v dateOnly=%v", tc.in, p, tc.want, tc.dateOnly)
		}
	}
	if _, err := Parse("next week", time.UTC); err == nil {
		t.Fatalf("expected error for garbage")
	}
	if _, err := Parse("", time.UTC); err != ErrNoDate {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
}

func TestIsOverdue_Boundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	due := "2024-03-05T12:00:00"
	if IsOverdue(due, false, now) {
		t.Fatalf("deadline equal to now must not be overdue")
	}
	if !IsOverdue(due, false, now.Add(time.Microsecond)) {
		t.Fatalf("deadline one microsecond in the past must be overdue")
	}
	if IsOverdue(due, true, now.Add(time.Hour)) {
		t.Fatalf("closed tasks are never overdue")
	}
}

func TestIsOverdue_DateOnlyIsEndOfDay(t *testing.T) {
	t.Parallel()

	if IsOverdue("2024-03-05", false, time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only value should not be overdue during its own day")
	}
	if !IsOverdue("2024-03-05", false, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only value should be overdue the next day")
	}
	key, ok := SortKey("2024-03-05", time.UTC)
	if !ok || key.Hour() != 0 {
		t.Fatalf("date-only sort key should be midnight, got %v", key)
	}
}

func TestOverdueLabel_CallClientScenario(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !IsOverdue("2024-01-01T10:00:00", false, now) {
		t.Fatalf("expected overdue")
	}
	if got := OverdueLabel("2024-01-01T10:00:00", now); got != "1 day overdue" {
		t.Fatalf("OverdueLabel = %q", got)
	}
	if got := OverdueLabel("2024-01-01T10:00:00", time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)); got != "3 hours overdue" {
		t.Fatalf("OverdueLabel hours = %q", got)
	}
	if got := OverdueLabel("2024-01-01T10:00:00", time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC)); got != "1 minute overdue" {
		t.Fatalf("OverdueLabel minutes = %q", got)
	}
	if got := OverdueLabel("2024-01-03", now); got != "" {
		t.Fatalf("future date should have no label, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		due  string
		want Class
	}{
		{name: "overdue", due: "2024-06-01T08:00", want: Class{Overdue: true}},
		{name: "due soon", due: "2024-06-01T09:30", want: Class{DueSoon: true, MinutesUntilDue: 30}},
		{name: "due today", due: "2024-06-01T15:00", want: Class{DueToday: true}},
		{name: "date only today", due: "2024-06-01", want: Class{DueToday: true}},
		{name: "tomorrow", due: "2024-06-02T09:00", want: Class{}},
		{name: "no date", due: "", want: Class{}},
	}
	for _, tc := range cases {
		if got := Classify(tc.due, false, now); got != tc.want {
			t.Fatalf("%s: Classify = %#v, want %#v", tc.name, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if got := Format("2024-01-05", time.UTC); got != "Jan 5, 2024" {
		t.Fatalf("Format date = %q", got)
	}
	if got := Format("2024-01-05T14:30", time.UTC); got != "Jan 5, 2024 14:30" {
		t.Fatalf("Format datetime = %q", got)
	}
	if got := Format("", time.UTC); got != "No date" {
		t.Fatalf("Format empty = %q", got)
	}
}
