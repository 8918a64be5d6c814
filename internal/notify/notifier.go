// Package notify polls the backend for due tasks and raises notifications.
package notify

import (
	"context"
	"errors"
	"time"
)

// Permission is the notification permission of a Notifier.
// Granted and Denied are final; nothing asks again once either is reached.
type Permission int

const (
	Default Permission = iota
	Granted
	Denied
	Unsupported
)

func (p Permission) String() string {
	switch p {
	case Default:
		return "default"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// DefaultTimeout is how long a notification stays up without interaction.
const DefaultTimeout = 10 * time.Second

// Notification is one user-facing alert. TaskID, when set, is the task the
// alert opens on activation.
type Notification struct {
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	TaskID   string        `json:"taskId,omitempty"`
	Category Category      `json:"category,omitempty"`
	Timeout  time.Duration `json:"-"`
}

// Notifier is the port to whatever shows notifications to the user.
type Notifier interface {
	Permission() Permission
	// RequestPermission asks the user once; it returns the resulting permission.
	RequestPermission(ctx context.Context) (Permission, error)
	Notify(ctx context.Context, n Notification) error
}

// Multi fans notifications out to every granted notifier.
type Multi []Notifier

func (m Multi) Permission() Permission {
	best := Unsupported
	for _, n := range m {
		switch p := n.Permission(); {
		case p == Granted:
			return Granted
		case p == Default:
			best = Default
		case p == Denied && best == Unsupported:
			best = Denied
		}
	}
	return best
}

func (m Multi) RequestPermission(ctx context.Context) (Permission, error) {
	var errs []error
	for _, n := range m {
		if n.Permission() != Default {
			continue
		}
		if _, err := n.RequestPermission(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return m.Permission(), errors.Join(errs...)
}

func (m Multi) Notify(ctx context.Context, note Notification) error {
	var errs []error
	for _, n := range m {
		if n.Permission() != Granted {
			continue
		}
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
