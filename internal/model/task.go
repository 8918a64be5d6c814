package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityUrgent   = "Urgent"
	PriorityCritical = "Critical"
)

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusPending    = "Pending"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// Priorities lists the known priorities from least to most pressing.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityCritical}

// PriorityRank returns the position of p in Priorities, or -1 when unknown.
func PriorityRank(p string) int {
	for i, v := range Priorities {
		if strings.EqualFold(v, strings.TrimSpace(p)) {
			return i
		}
	}
	return -1
}

// IsClosedStatus reports whether status is an end state that exempts a task from
// overdue classification and hides it from default task listings.
func IsClosedStatus(status string) bool {
	switch strings.TrimSpace(status) {
	case StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Task mirrors the backend task JSON.
//
// Fields the client does not model (history, comments, attachments, dependencies...) are kept
// in Extra so a PUT of the full entity never drops them.
type Task struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CustomerName string  `json:"customer_name"`
	Category     string  `json:"category"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	FollowUpDate string  `json:"follow_up_date"`
	AssignedTo   string  `json:"assigned_to"`
	Tags         string  `json:"tags"`
	TopicID      *string `json:"topic_id"`
	ProjectID    *string `json:"project_id"`
	CreatedDate  string  `json:"created_date,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var taskKnownFields = []string{
	"id", "title", "description", "customer_name", "category", "priority", "status",
	"follow_up_date", "assigned_to", "tags", "topic_id", "project_id", "created_date",
}

type taskWire Task

func (t *Task) UnmarshalJSON(b []byte) error {
	var w taskWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range taskKnownFields {
		delete(raw, k)
	}
	*t = Task(w)
	if len(raw) > 0 {
		t.Extra = raw
	} else {
		t.Extra = nil
	}
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(taskWire(t))
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return b, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range t.Extra {
		if _, known := m[k]; known {
			continue
		}
		m[k] = v
	}
	return json.Marshal(m)
}

// Clone returns a deep copy so callers can mutate without touching a cached value.
func (t Task) Clone() Task {
	c := t
	if t.TopicID != nil {
		v := *t.TopicID
		c.TopicID = &v
	}
	if t.ProjectID != nil {
		v := *t.ProjectID
		c.ProjectID = &v
	}
	if t.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(t.Extra))
		for k, v := range t.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

func (t Task) IsClosed() bool { return IsClosedStatus(t.Status) }

// TagList splits the comma-joined tags string.
func (t Task) TagList() []string {
	var out []string
	for _, p := range strings.Split(t.Tags, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GroupValue returns the value of the board grouping field named by groupBy.
func (t Task) GroupValue(groupBy string) string {
	switch groupBy {
	case "status":
		return t.Status
	case "category":
		return t.Category
	case "priority":
		return t.Priority
	case "customer":
		return t.CustomerName
	default:
		return ""
	}
}

// WithGroupValue returns a copy of t with the board grouping field set to v.
func (t Task) WithGroupValue(groupBy, v string) (Task, error) {
	c := t.Clone()
	switch groupBy {
	case "status":
		c.Status = v
	case "category":
		c.Category = v
	case "priority":
		c.Priority = v
	case "customer":
		c.CustomerName = v
	default:
		return t, fmt.Errorf("unknown group field: %q", groupBy)
	}
	return c, nil
}

var ErrTitleRequired = errors.New("title is required")

// ValidationError reports a task field that failed client-side validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the fields a save requires before any network call is made.
// parseDate is injected so the model package stays free of date parsing rules.
func (t Task) Validate(parseDate func(string) bool) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	if p := strings.TrimSpace(t.Priority); p != "" && PriorityRank(p) < 0 {
		return ValidationError{Field: "priority", Reason: fmt.Sprintf("%q is not one of %s", p, strings.Join(Priorities, ", "))}
	}
	if d := strings.TrimSpace(t.FollowUpDate); d != "" && parseDate != nil && !parseDate(d) {
		return ValidationError{Field: "follow_up_date", Reason: fmt.Sprintf("cannot parse %q", d)}
	}
	return nil
}

// CreateTaskResult is the POST /api/tasks response.
type CreateTaskResult struct {
	Task    Task          `json:"task"`
	Similar []SimilarTask `json:"similar_tasks,omitempty"`
}

type SimilarTask struct {
	Task  Task    `json:"task"`
	Score float64 `json:"score"`
}
