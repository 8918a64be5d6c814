package store

import (
	"context"
	"errors"
	"testing"

	"tasky-cli/internal/model"
)

type fakeTaskSource struct {
	tasks []model.Task
	err   error
	calls int
}

func (f *fakeTaskSource) ListTasks(context.Context) ([]model.Task, error) {
	f.calls++
	return f.tasks, f.err
}

func TestTaskCache_ReplaceIsCopyOnWrite(t *testing.T) {
	t.Parallel()

	src := &fakeTaskSource{tasks: []model.Task{{ID: "a", Status: "Open"}, {ID: "b", Status: "Open"}}}
	c := NewTaskCache(src)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	before := c.Snapshot()
	if !c.Replace(model.Task{ID: "a", Status: "Completed"}) {
		t.Fatalf("Replace: expected id a to be found")
	}
	if before[0].Status != "Open" {
		t.Fatalf("earlier snapshot was mutated: %#v", before[0])
	}
	if got, _ := c.Get("a"); got.Status != "Completed" {
		t.Fatalf("expected replaced task, got %#v", got)
	}
	if c.Replace(model.Task{ID: "zzz"}) {
		t.Fatalf("Replace of unknown id should report false")
	}
}

func TestTaskCache_LoadErrorKeepsState(t *testing.T) {
	t.Parallel()

	src := &fakeTaskSource{tasks: []model.Task{{ID: "a"}}}
	c := NewTaskCache(src)
	_ = c.Load(context.Background())

	src.err = errors.New("boom")
	if err := c.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if len(c.Snapshot()) != 1 {
		t.Fatalf("expected cache to keep previous state, got %v", c.Snapshot())
	}
}

func TestTaskCache_AddRemove(t *testing.T) {
	t.Parallel()

	c := NewTaskCache(&fakeTaskSource{})
	c.Add(model.Task{ID: "a"})
	c.Add(model.Task{ID: "b"})
	if !c.Remove("a") || len(c.Snapshot()) != 1 || c.Snapshot()[0].ID != "b" {
		t.Fatalf("unexpected cache after remove: %v", c.Snapshot())
	}
}

type fakeConfigSource struct {
	cfg model.Config
	err error
}

func (f fakeConfigSource) Config(context.Context) (model.Config, error) { return f.cfg, f.err }

func TestConfigCache_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfigCache(fakeConfigSource{err: errors.New("offline")}, nil)
	cfg := c.Load(context.Background())
	if len(cfg.Statuses) != 5 {
		t.Fatalf("expected default statuses, got %v", cfg.Statuses)
	}

	c = NewConfigCache(fakeConfigSource{cfg: model.Config{Statuses: []string{"Open", "Done"}}}, nil)
	cfg = c.Load(context.Background())
	if len(cfg.Statuses) != 2 || len(cfg.Priorities) != 4 {
		t.Fatalf("expected configured statuses plus default priorities, got %#v", cfg)
	}
}
