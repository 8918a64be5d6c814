package store

import (
	"context"
	"sync"
	"time"

	"tasky-cli/internal/model"
)

// TaskSource loads the authoritative task list.
type TaskSource interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
}

// TaskCache is the client mirror of the server task list.
//
// The slice is replaced wholesale and never mutated in place, so a slice
// returned by Snapshot stays consistent for the whole render that reads it.
type TaskCache struct {
	src TaskSource

	mu       sync.RWMutex
	tasks    []model.Task
	loadedAt time.Time
}

func NewTaskCache(src TaskSource) *TaskCache {
	return &TaskCache{src: src}
}

// Load replaces the cache with the server list. On error the cache is untouched.
func (c *TaskCache) Load(ctx context.Context) error {
	tasks, err := c.src.ListTasks(ctx)
	if err != nil {
		return err
	}
	c.Set(tasks)
	return nil
}

func (c *TaskCache) Set(tasks []model.Task) {
	next := make([]model.Task, len(tasks))
	copy(next, tasks)
	c.mu.Lock()
	c.tasks = next
	c.loadedAt = time.Now()
	c.mu.Unlock()
}

// Snapshot returns the current list. Callers must treat it as read-only.
func (c *TaskCache) Snapshot() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasks
}

func (c *TaskCache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Get returns a deep copy of the task with id.
func (c *TaskCache) Get(id string) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// Replace swaps in t for the task with the same id. It reports false when the
// id is not cached.
func (c *TaskCache) Replace(t model.Task) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID != t.ID {
			continue
		}
		next := make([]model.Task, len(c.tasks))
		copy(next, c.tasks)
		next[i] = t
		c.tasks = next
		return true
	}
	return false
}

func (c *TaskCache) Add(t model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]model.Task, 0, len(c.tasks)+1)
	next = append(next, c.tasks...)
	c.tasks = append(next, t)
}

func (c *TaskCache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID != id {
			continue
		}
		next := make([]model.Task, 0, len(c.tasks)-1)
		next = append(next, c.tasks[:i]...)
		c.tasks = append(next, c.tasks[i+1:]...)
		return true
	}
	return false
}
