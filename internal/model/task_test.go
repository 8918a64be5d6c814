package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestTask_UnknownFieldsSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	in := `{"id":"t1","title":"Call client","status":"Open","topic_id":null,"project_id":"p1","comments":[{"text":"hi"}],"history":[]}`
	var task Task
	if err := json.Unmarshal([]byte(in), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.ProjectID == nil || *task.ProjectID != "p1" {
		t.Fatalf("expected project_id p1, got %#v", task.ProjectID)
	}
	if len(task.Extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %v", task.Extra)
	}

	task.Status = StatusInProgress
	b, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if m["status"] != StatusInProgress {
		t.Fatalf("expected status to be updated, got %v", m["status"])
	}
	if _, ok := m["comments"]; !ok {
		t.Fatalf("expected comments to be preserved: %s", b)
	}
	if v, ok := m["topic_id"]; !ok || v != nil {
		t.Fatalf("expected topic_id null to be sent, got %v (present=%v)", v, ok)
	}
}

func TestTask_CloneIsDeep(t *testing.T) {
	t.Parallel()

	p := "p1"
	orig := Task{ID: "t1", ProjectID: &p, Extra: map[string]json.RawMessage{"x": json.RawMessage(`1`)}}
	c := orig.Clone()
	*c.ProjectID = "p2"
	c.Extra["x"][0] = '2'
	if *orig.ProjectID != "p1" || string(orig.Extra["x"]) != "1" {
		t.Fatalf("clone shares memory with original: %#v", orig)
	}
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	okDate := func(s string) bool { return s == "2024-01-01" }
	cases := []struct {
		name string
		task Task
		want error
	}{
		{name: "ok", task: Task{Title: "x", Priority: "High", FollowUpDate: "2024-01-01"}},
		{name: "missing title", task: Task{Title: "  "}, want: ErrTitleRequired},
		{name: "bad priority", task: Task{Title: "x", Priority: "Whenever"}, want: ValidationError{Field: "priority"}},
		{name: "bad date", task: Task{Title: "x", FollowUpDate: "soon"}, want: ValidationError{Field: "follow_up_date"}},
	}
	for _, tc := range cases {
		err := tc.task.Validate(okDate)
		switch want := tc.want.(type) {
		case nil:
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
		case ValidationError:
			var ve ValidationError
			if !errors.As(err, &ve) || ve.Field != want.Field {
				t.Fatalf("%s: expected validation error on %s, got %v", tc.name, want.Field, err)
			}
		default:
			if !errors.Is(err, want) {
				t.Fatalf("%s: expected %v, got %v", tc.name, want, err)
			}
		}
	}
}

func TestTask_WithGroupValue(t *testing.T) {
	t.Parallel()

	task := Task{ID: "t1", Status: StatusOpen, Category: "Bug"}
	moved, err := task.WithGroupValue("status", StatusInProgress)
	if err != nil {
		t.Fatalf("WithGroupValue: %v", err)
	}
	if moved.Status != StatusInProgress || moved.Category != "Bug" {
		t.Fatalf("unexpected moved task: %#v", moved)
	}
	if task.Status != StatusOpen {
		t.Fatalf("original mutated: %#v", task)
	}
	if _, err := task.WithGroupValue("colour", "red"); err == nil {
		t.Fatalf("expected error for unknown group field")
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	c := Config{Statuses: []string{"Open", "Done", "Blocked"}}.WithDefaults()
	if strings.Join(c.Statuses, ",") != "Open,Done,Blocked" {
		t.Fatalf("expected configured statuses to be kept, got %v", c.Statuses)
	}
	if len(c.Categories) != 5 || c.Categories[0] != "Development" {
		t.Fatalf("expected default categories, got %v", c.Categories)
	}
	if _, ok := c.OptionsFor("customer"); ok {
		t.Fatalf("customer grouping should not have configured options")
	}
}

func TestSettings_Mask(t *testing.T) {
	t.Parallel()

	if got := MaskKey("sk-ant-123456"); got != "***3456" {
		t.Fatalf("MaskKey: got %q", got)
	}
	if !(Settings{APIKey: "***3456"}).KeyMasked() {
		t.Fatalf("expected masked key to be detected")
	}
}

func TestDeal_AmountsAcceptStrings(t *testing.T) {
	t.Parallel()

	var d Deal
	if err := json.Unmarshal([]byte(`{"id":"d1","dealForecast":"1200.5","dealActual":300}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.DealForecast == nil || *d.DealForecast != 1200.5 {
		t.Fatalf("forecast: %#v", d.DealForecast)
	}
	if d.Field("dealActual") != "300" {
		t.Fatalf("actual: %q", d.Field("dealActual"))
	}
}
