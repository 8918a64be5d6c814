// Package board reconciles card moves between board columns with the server.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"tasky-cli/internal/model"
	"tasky-cli/internal/store"

	"github.com/sirupsen/logrus"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
	DroppedNoChange
	DroppedChanged
	Applied
	Acked
	Rejected
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case DroppedNoChange:
		return "dropped-no-change"
	case DroppedChanged:
		return "dropped-changed"
	case Applied:
		return "optimistic-applied"
	case Acked:
		return "server-ack"
	case Rejected:
		return "server-reject"
	case RolledBack:
		return "rollback"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	ErrDragInProgress = errors.New("a card move is already in progress")
	ErrNotDragging    = errors.New("no card is being moved")
	ErrUnknownTask    = errors.New("task is not on the board")
)

type OutcomeKind int

const (
	NoOp OutcomeKind = iota
	Saved
	Reverted
)

// Outcome reports how a drop ended. Err is the save failure for Reverted;
// ReloadErr is set when the recovery reload failed too and the snapshot was
// restored locally instead.
type Outcome struct {
	Kind      OutcomeKind
	Task      model.Task
	Trace     []Phase
	Err       error
	ReloadErr error
}

// Updater saves a full task.
type Updater interface {
	UpdateTask(ctx context.Context, t model.Task) (model.Task, error)
}

// Reconciler runs one move gesture at a time against a TaskCache.
type Reconciler struct {
	cache *store.TaskCache
	api   Updater
	log   logrus.FieldLogger

	mu       sync.Mutex
	phase    Phase
	groupBy  string
	snapshot model.Task
	trace    []Phase
}

func NewReconciler(cache *store.TaskCache, api Updater, log logrus.FieldLogger) *Reconciler {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Reconciler{cache: cache, api: api, log: log}
}

func (r *Reconciler) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Dragged returns the snapshot of the card being moved.
func (r *Reconciler) Dragged() (model.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == Idle {
		return model.Task{}, false
	}
	return r.snapshot.Clone(), true
}

func (r *Reconciler) setPhaseLocked(p Phase) {
	r.phase = p
	r.trace = append(r.trace, p)
	r.log.WithFields(logrus.Fields{"task_id": r.snapshot.ID, "phase": p.String()}).Debug("board move")
}

func (r *Reconciler) setPhase(p Phase) {
	r.mu.Lock()
	r.setPhaseLocked(p)
	r.mu.Unlock()
}

// Start picks up the card for taskID, grouping by groupBy. Only one gesture
// may be live; Start fails with ErrDragInProgress until it is dropped or cancelled.
func (r *Reconciler) Start(taskID, groupBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != Idle {
		return ErrDragInProgress
	}
	t, ok := r.cache.Get(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	if _, err := t.WithGroupValue(groupBy, ""); err != nil {
		return err
	}
	r.snapshot = t
	r.groupBy = groupBy
	r.trace = nil
	r.setPhaseLocked(Dragging)
	return nil
}

// Cancel abandons the gesture without touching the cache or the server.
func (r *Reconciler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == Dragging {
		r.phase = Idle
		r.trace = nil
	}
}

// Target is a drop destination. A Missing target is the bucket for cards whose
// field is empty or, when Configured, not one of Options; dropping there
// clears the field.
type Target struct {
	Value      string
	Missing    bool
	Configured bool
	Options    []string
}

// ValueTarget is the column for value, or the Missing column when value is "".
func ValueTarget(value string, options []string, configured bool) Target {
	value = strings.TrimSpace(value)
	return Target{Value: value, Missing: value == "", Configured: configured, Options: options}
}

// Holds reports whether a card whose field is v already sits in t.
func (t Target) Holds(v string) bool {
	v = strings.TrimSpace(v)
	if !t.Missing {
		return v == strings.TrimSpace(t.Value)
	}
	return v == "" || (t.Configured && !slices.Contains(t.Options, v))
}

func (t Target) value() string {
	if t.Missing {
		return ""
	}
	return strings.TrimSpace(t.Value)
}

// Drop moves the card to target.
//
// A drop onto the card's own column makes no request. Otherwise the cache is
// updated optimistically and the full task is PUT; on failure the task list is
// reloaded from the server.
func (r *Reconciler) Drop(ctx context.Context, target Target) (Outcome, error) {
	r.mu.Lock()
	if r.phase != Dragging {
		r.mu.Unlock()
		return Outcome{}, ErrNotDragging
	}
	snap := r.snapshot.Clone()
	groupBy := r.groupBy
	value := target.value()

	if target.Holds(snap.GroupValue(groupBy)) {
		r.setPhaseLocked(DroppedNoChange)
		out := Outcome{Kind: NoOp, Task: snap, Trace: r.finishLocked()}
		r.mu.Unlock()
		return out, nil
	}
	r.setPhaseLocked(DroppedChanged)
	r.mu.Unlock()

	moved, err := snap.WithGroupValue(groupBy, value)
	if err != nil {
		r.reset()
		return Outcome{}, err
	}
	r.cache.Replace(moved)
	r.setPhase(Applied)

	log := r.log.WithFields(logrus.Fields{"task_id": snap.ID, "field": groupBy, "from": snap.GroupValue(groupBy), "to": value})
	saved, err := r.api.UpdateTask(ctx, moved)
	if err == nil {
		if saved.ID == "" {
			saved = moved
		}
		r.cache.Replace(saved)
		r.setPhase(Acked)
		log.Info("task moved")
		return Outcome{Kind: Saved, Task: saved, Trace: r.finish()}, nil
	}

	r.setPhase(Rejected)
	log.WithError(err).Warn("task move rejected; reloading")
	out := Outcome{Kind: Reverted, Task: snap, Err: err}
	if rerr := r.cache.Load(ctx); rerr != nil {
		log.WithError(rerr).Warn("reload after rejected move failed; restoring snapshot")
		r.cache.Replace(snap)
		out.ReloadErr = rerr
	} else if cur, ok := r.cache.Get(snap.ID); ok {
		out.Task = cur
	}
	r.setPhase(RolledBack)
	out.Trace = r.finish()
	return out, nil
}

// Move is Start followed by Drop, for non-interactive callers.
func (r *Reconciler) Move(ctx context.Context, taskID, groupBy string, target Target) (Outcome, error) {
	if err := r.Start(taskID, groupBy); err != nil {
		return Outcome{}, err
	}
	return r.Drop(ctx, target)
}

func (r *Reconciler) finishLocked() []Phase {
	r.setPhaseLocked(Idle)
	tr := r.trace
	r.trace = nil
	return tr
}

func (r *Reconciler) finish() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishLocked()
}

func (r *Reconciler) reset() {
	r.mu.Lock()
	r.phase = Idle
	r.trace = nil
	r.mu.Unlock()
}
