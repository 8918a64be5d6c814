package view

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"tasky-cli/internal/model"
)

func ids[T Record](items []T) string {
	var out []string
	for _, it := range items {
		out = append(out, it.Field("id"))
	}
	return strings.Join(out, ",")
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Title: "Call client", CustomerName: "Acme", Status: "Open", Priority: "High", Tags: "api,backend", FollowUpDate: "2024-01-03"},
		{ID: "t2", Title: "Write docs", CustomerName: "Globex", Status: "Completed", Priority: "Low", FollowUpDate: "2024-01-01T09:00"},
		{ID: "t3", Title: "Fix login", CustomerName: "", Status: "In Progress", Priority: "Urgent", AssignedTo: "sam"},
		{ID: "t4", Title: "Email Acme", CustomerName: "acme", Status: "Open", Priority: "", Description: "about the renewal", FollowUpDate: "2024-01-02T08:00"},
	}
}

func TestFilter_IsPureAndIdempotent(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()
	orig := make([]model.Task, len(tasks))
	copy(orig, tasks)

	fs := FilterState{Search: "acme"}
	a := Filter(tasks, fs)
	b := Filter(tasks, fs)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("filter is not idempotent: %v vs %v", ids(a), ids(b))
	}
	if !reflect.DeepEqual(tasks, orig) {
		t.Fatalf("filter mutated its input")
	}
	if got := ids(a); got != "t1,t4" {
		t.Fatalf("search acme = %s", got)
	}
}

func TestFilter_ClosedHiddenUnlessShown(t *testing.T) {
	t.Parallel()

	if got := ids(Filter(sampleTasks(), FilterState{})); got != "t1,t3,t4" {
		t.Fatalf("default filter = %s", got)
	}
	if got := ids(Filter(sampleTasks(), FilterState{ShowClosed: true})); got != "t1,t2,t3,t4" {
		t.Fatalf("show closed = %s", got)
	}
}

func TestFilter_FieldEquality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		fs   FilterState
		want string
	}{
		{fs: FilterState{Status: "Open"}, want: "t1,t4"},
		{fs: FilterState{Customer: "Acme"}, want: "t1"},
		{fs: FilterState{Assignee: "sam"}, want: "t3"},
		{fs: FilterState{Search: "RENEWAL"}, want: "t4"},
		{fs: FilterState{Search: "backend", Status: "Open"}, want: "t1"},
		{fs: FilterState{Status: "Nope"}, want: ""},
	}
	for _, tc := range cases {
		if got := ids(Filter(sampleTasks(), tc.fs)); got != tc.want {
			t.Fatalf("Filter(%+v) = %q, want %q", tc.fs, got, tc.want)
		}
	}
}

func TestGroup_ConfiguredColumnsIncludeEmpty(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{{ID: "a", Status: "Open"}, {ID: "b", Status: "Open"}, {ID: "c", Status: "Done"}}
	b := Group(tasks, "status", []string{"Open", "Done", "Blocked"}, true)
	if len(b.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(b.Columns))
	}
	if !reflect.DeepEqual(b.Counts(), []int{2, 1, 0}) {
		t.Fatalf("counts = %v", b.Counts())
	}
	if b.Columns[2].Label != "Blocked" || b.Columns[2].Count() != 0 {
		t.Fatalf("expected empty Blocked column, got %#v", b.Columns[2])
	}
}

func TestGroup_MissingAndUnknownValuesAreKept(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{{ID: "a", Status: "Open"}, {ID: "b", Status: ""}, {ID: "c", Status: "Archived"}}
	b := Group(tasks, "status", []string{"Open"}, true)
	last := b.Columns[len(b.Columns)-1]
	if !last.Missing || last.Label != "No Status" || ids(last.Items) != "b,c" {
		t.Fatalf("unexpected missing bucket: %#v", last)
	}
}

func TestGroup_AdHocCustomers(t *testing.T) {
	t.Parallel()

	b := Group(sampleTasks(), "customer", nil, false)
	var labels []string
	for _, c := range b.Columns {
		labels = append(labels, c.Label)
	}
	if got := strings.Join(labels, "|"); got != "Acme|Globex|acme|Unassigned" {
		t.Fatalf("columns = %s", got)
	}
	if col, row := b.ColumnIndex("t3"); col != 3 || row != 0 {
		t.Fatalf("ColumnIndex(t3) = %d,%d", col, row)
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()
	cases := []struct {
		by   string
		want string
	}{
		{by: "follow_up_date", want: "t2,t4,t1,t3"},
		{by: "priority", want: "t3,t1,t2,t4"},
		{by: "customer", want: "t1,t4,t2,t3"},
		{by: "title", want: "t1,t4,t3,t2"},
	}
	for _, tc := range cases {
		spec, ok := SortSpecFor(tc.by)
		if !ok {
			t.Fatalf("SortSpecFor(%q) unknown", tc.by)
		}
		if got := ids(Sort(tasks, spec)); got != tc.want {
			t.Fatalf("Sort by %s = %s, want %s", tc.by, got, tc.want)
		}
	}
	if ids(tasks) != "t1,t2,t3,t4" {
		t.Fatalf("Sort mutated its input")
	}
}

func TestSort_Meetings(t *testing.T) {
	t.Parallel()

	ms := []model.Meeting{
		{ID: "m1", Date: "2024-02-01", Time: "09:00", Attendees: make([]json.RawMessage, 1)},
		{ID: "m2", Date: "2024-03-01", Attendees: make([]json.RawMessage, 3)},
		{ID: "m3", Date: "2024-02-01", Time: "15:00"},
	}
	date, _ := SortSpecFor("date")
	if got := ids(Sort(ms, date)); got != "m2,m3,m1" {
		t.Fatalf("meetings by date = %s", got)
	}
	att, _ := SortSpecFor("attendees")
	if got := ids(Sort(ms, att)); got != "m2,m1,m3" {
		t.Fatalf("meetings by attendees = %s", got)
	}
}

func TestDistinctValues(t *testing.T) {
	t.Parallel()

	deals := []model.Deal{{ID: "d1", FinancialYear: "FY25"}, {ID: "d2", FinancialYear: "FY24"}, {ID: "d3"}, {ID: "d4", FinancialYear: "FY25"}}
	if got := DistinctValues(deals, "financial_year"); !reflect.DeepEqual(got, []string{"FY24", "FY25"}) {
		t.Fatalf("DistinctValues = %v", got)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	got := Find(sampleTasks(), "fxlgn", 5)
	if len(got) == 0 || got[0].ID != "t3" {
		t.Fatalf("Find = %v", ids(got))
	}
	if Find(sampleTasks(), "  ", 5) != nil {
		t.Fatalf("empty pattern should return nil")
	}
}
