package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"tasky-cli/internal/api"
	"tasky-cli/internal/model"
	"tasky-cli/internal/store"
	"tasky-cli/internal/view"
)

// fakeBackend serves GET /api/tasks from tasks and records every PUT body.
type fakeBackend struct {
	mu      sync.Mutex
	tasks   []map[string]any
	puts    []map[string]any
	gets    int
	failPut bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		f.gets++
		_ = json.NewEncoder(w).Encode(f.tasks)
	case http.MethodPut:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.puts = append(f.puts, body)
		if f.failPut {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "disk full"})
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeBackend) stats() ([]map[string]any, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.puts...), f.gets
}

func newFixture(t *testing.T) (*fakeBackend, *store.TaskCache, *Reconciler) {
	t.Helper()
	fb := &fakeBackend{tasks: []map[string]any{
		{"id": "t1", "title": "Call client", "status": "Open", "priority": "High", "customer_name": "Acme", "tags": "api", "topic_id": nil, "project_id": "p1", "comments": []any{"keep"}},
		{"id": "t2", "title": "Write docs", "status": "Open", "priority": "Low"},
	}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL)
	cache := store.NewTaskCache(client)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return fb, cache, NewReconciler(cache, client, nil)
}

func TestDrop_SameColumnIsNoOp(t *testing.T) {
	fb, cache, r := newFixture(t)
	before := cache.Snapshot()

	if err := r.Start("t1", "status"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	out, err := r.Drop(context.Background(), to("Open"))
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if out.Kind != NoOp {
		t.Fatalf("expected NoOp, got %v", out.Kind)
	}
	puts, gets := fb.stats()
	if len(puts) != 0 || gets != 1 {
		t.Fatalf("expected no requests after initial load, got puts=%d gets=%d", len(puts), gets)
	}
	if !reflect.DeepEqual(before, cache.Snapshot()) {
		t.Fatalf("cache changed on no-op drop")
	}
	if !reflect.DeepEqual(out.Trace, []Phase{Dragging, DroppedNoChange, Idle}) {
		t.Fatalf("trace = %v", out.Trace)
	}
}

func TestDrop_ChangedSendsOneFullPut(t *testing.T) {
	fb, cache, r := newFixture(t)

	if err := r.Start("t1", "status"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	out, err := r.Drop(context.Background(), to("In Progress"))
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if out.Kind != Saved {
		t.Fatalf("expected Saved, got %v (err=%v)", out.Kind, out.Err)
	}
	puts, _ := fb.stats()
	if len(puts) != 1 {
		t.Fatalf("expected exactly one PUT, got %d", len(puts))
	}

	want := map[string]any{}
	for k, v := range fb.tasks[0] {
		want[k] = v
	}
	want["status"] = "In Progress"
	got := puts[0]
	for k, v := range want {
		if !reflect.DeepEqual(got[k], v) {
			t.Fatalf("PUT field %s = %#v, want %#v", k, got[k], v)
		}
	}

	if tk, _ := cache.Get("t1"); tk.Status != "In Progress" {
		t.Fatalf("cache not updated: %#v", tk)
	}
	b := view.Group(cache.Snapshot(), "status", []string{"Open", "In Progress"}, true)
	if !reflect.DeepEqual(b.Counts(), []int{1, 1}) {
		t.Fatalf("counts after move = %v", b.Counts())
	}
	if r.Phase() != Idle {
		t.Fatalf("expected Idle after drop, got %v", r.Phase())
	}
}

func TestDrop_RejectedReloadsServerState(t *testing.T) {
	fb, cache, r := newFixture(t)
	fb.mu.Lock()
	fb.failPut = true
	fb.mu.Unlock()

	out, err := r.Move(context.Background(), "t1", "status", to("Completed"))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if out.Kind != Reverted {
		t.Fatalf("expected Reverted, got %v", out.Kind)
	}
	var apiErr *api.Error
	if !errors.As(out.Err, &apiErr) || apiErr.Message != "disk full" {
		t.Fatalf("expected server error, got %v", out.Err)
	}
	if _, gets := fb.stats(); gets != 2 {
		t.Fatalf("expected a recovery reload, got %d GETs", gets)
	}
	if tk, _ := cache.Get("t1"); tk.Status != "Open" {
		t.Fatalf("cache should reflect server state, got %q", tk.Status)
	}
	if out.Trace[len(out.Trace)-2] != RolledBack {
		t.Fatalf("trace = %v", out.Trace)
	}
}

func TestStart_IsExclusive(t *testing.T) {
	_, _, r := newFixture(t)

	if err := r.Start("t1", "status"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start("t2", "status"); !errors.Is(err, ErrDragInProgress) {
		t.Fatalf("expected ErrDragInProgress, got %v", err)
	}
	r.Cancel()
	if err := r.Start("t2", "status"); err != nil {
		t.Fatalf("Start after cancel: %v", err)
	}
	if _, err := r.Drop(context.Background(), to("Open")); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if _, err := r.Drop(context.Background(), to("Open")); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("expected ErrNotDragging, got %v", err)
	}
	if err := r.Start("nope", "status"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
}

func TestDrop_RejectedAndOfflineRestoresSnapshot(t *testing.T) {
	cache := store.NewTaskCache(offlineSource{})
	cache.Set([]model.Task{{ID: "t1", Title: "x", Status: "Open"}})
	r := NewReconciler(cache, failingUpdater{}, nil)

	out, err := r.Move(context.Background(), "t1", "status", to("Pending"))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if out.ReloadErr == nil {
		t.Fatalf("expected reload error")
	}
	if tk, _ := cache.Get("t1"); tk.Status != "Open" {
		t.Fatalf("expected snapshot restored, got %q", tk.Status)
	}
}

func TestDrop_OwnMissingColumnIsNoOp(t *testing.T) {
	fb, cache, r := newFixture(t)
	cur, _ := cache.Get("t2")
	cur.Status = "Archived"
	cache.Replace(cur)

	opts := []string{"Open", "In Progress"}
	b := view.Group(cache.Snapshot(), "status", opts, true)
	col := b.Columns[len(b.Columns)-1]
	if !col.Missing || col.Count() != 1 {
		t.Fatalf("expected t2 in the missing column, got %+v", b.Counts())
	}

	out, err := r.Move(context.Background(), "t2", "status", Target{Value: col.Value, Missing: col.Missing, Configured: true, Options: opts})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if out.Kind != NoOp {
		t.Fatalf("expected NoOp, got %v", out.Kind)
	}
	if puts, _ := fb.stats(); len(puts) != 0 {
		t.Fatalf("expected no PUT, got %v", puts)
	}
	if tk, _ := cache.Get("t2"); tk.Status != "Archived" {
		t.Fatalf("status should be kept, got %q", tk.Status)
	}

	out, err = r.Move(context.Background(), "t2", "status", ValueTarget("Open", opts, true))
	if err != nil || out.Kind != Saved {
		t.Fatalf("expected Saved, got %v (%v)", out.Kind, err)
	}
}

func TestTarget_Holds(t *testing.T) {
	opts := []string{"Open", "Done"}
	cases := []struct {
		target Target
		value  string
		want   bool
	}{
		{ValueTarget("Open", opts, true), "Open", true},
		{ValueTarget("Open", opts, true), "Done", false},
		{ValueTarget("", opts, true), "", true},
		{ValueTarget("", opts, true), "Archived", true},
		{ValueTarget("", opts, true), "Open", false},
		{ValueTarget("", nil, false), "Acme", false},
		{ValueTarget("", nil, false), "  ", true},
	}
	for _, tc := range cases {
		if got := tc.target.Holds(tc.value); got != tc.want {
			t.Errorf("%+v.Holds(%q) = %v, want %v", tc.target, tc.value, got, tc.want)
		}
	}
}

func to(value string) Target {
	return ValueTarget(value, []string{"Open", "In Progress", "Completed", "Pending"}, true)
}

type offlineSource struct{}

func (offlineSource) ListTasks(context.Context) ([]model.Task, error) {
	return nil, errors.New("offline")
}

type failingUpdater struct{}

func (failingUpdater) UpdateTask(context.Context, model.Task) (model.Task, error) {
	return model.Task{}, errors.New("offline")
}
