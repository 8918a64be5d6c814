package notify

import (
	"context"
	"sync"
)

// Recorder is an in-memory Notifier for tests and dry runs.
type Recorder struct {
	mu       sync.Mutex
	perm     Permission
	answer   Permission
	requests int
	sent     []Notification
}

// NewRecorder starts at perm; a request while Default resolves to answer.
func NewRecorder(perm, answer Permission) *Recorder {
	return &Recorder{perm: perm, answer: answer}
}

func (r *Recorder) Permission() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perm
}

func (r *Recorder) RequestPermission(context.Context) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	if r.perm == Default {
		r.perm = r.answer
	}
	return r.perm, nil
}

func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func (r *Recorder) Requests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
