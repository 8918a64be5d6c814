package notify

import (
	"sort"
	"sync"

	"tasky-cli/internal/model"
)

type Category string

const (
	Overdue  Category = "overdue"
	DueSoon  Category = "dueSoon"
	DueToday Category = "dueToday"
)

var Categories = []Category{Overdue, DueSoon, DueToday}

// State holds the ids already notified per category for this process.
type State struct {
	mu   sync.Mutex
	sets map[Category]map[string]struct{}
}

func NewState() *State {
	s := &State{sets: map[Category]map[string]struct{}{}}
	for _, c := range Categories {
		s.sets[c] = map[string]struct{}{}
	}
	return s
}

// Admit returns the tasks in list not yet notified for cat and marks them notified.
func (s *State) Admit(cat Category, list []model.DueTask) []model.DueTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.set(cat)
	var fresh []model.DueTask
	for _, t := range list {
		if t.ID == "" {
			continue
		}
		if _, seen := set[t.ID]; seen {
			continue
		}
		set[t.ID] = struct{}{}
		fresh = append(fresh, t)
	}
	return fresh
}

// Forget unmarks id for cat so the next poll offers it again.
func (s *State) Forget(cat Category, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.set(cat), id)
}

// Prune keeps only the ids still present in cat's current list, so a task
// that leaves a category is notified again if it comes back.
func (s *State) Prune(cat Category, current []model.DueTask) {
	keep := make(map[string]struct{}, len(current))
	for _, t := range current {
		keep[t.ID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.set(cat)
	for id := range set {
		if _, ok := keep[id]; !ok {
			delete(set, id)
		}
	}
}

// Notified returns the sorted ids notified for cat.
func (s *State) Notified(cat Category) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sets[cat]))
	for id := range s.sets[cat] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *State) set(cat Category) map[string]struct{} {
	set, ok := s.sets[cat]
	if !ok {
		set = map[string]struct{}{}
		s.sets[cat] = set
	}
	return set
}

func listFor(cat Category, check model.NotificationCheck) []model.DueTask {
	switch cat {
	case Overdue:
		return check.Overdue
	case DueSoon:
		return check.DueSoon
	case DueToday:
		return check.DueToday
	default:
		return nil
	}
}
