package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"tasky-cli/internal/model"

	"github.com/sirupsen/logrus"
)

const DefaultInterval = 30 * time.Second

var ErrAlreadyRunning = errors.New("poller already running")

// Checker fetches the server's due-date classification.
type Checker interface {
	NotificationCheck(ctx context.Context) (model.NotificationCheck, error)
}

type Options struct {
	// Interval between polls; DefaultInterval when zero.
	Interval time.Duration
	// ReminderInterval, when positive, issues a digest of all overdue tasks
	// on its own schedule, without dedup.
	ReminderInterval time.Duration
	// Welcome sends a greeting when permission is granted by Start's request.
	Welcome bool
	// Location renders due times; time.Local when nil.
	Location *time.Location
}

// Poller surfaces newly overdue, due-soon and due-today tasks.
//
// Each tick starts its poll in a new goroutine, so a slow fetch never delays
// the next tick. Responses may land out of order; each is a full snapshot.
type Poller struct {
	checker  Checker
	notifier Notifier
	log      logrus.FieldLogger
	opts     Options
	state    *State

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(c Checker, n Notifier, log logrus.FieldLogger, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Poller{checker: c, notifier: n, log: log, opts: opts, state: NewState()}
}

func (p *Poller) State() *State { return p.state }

// Running reports whether the poll loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Start resolves the notification permission, asking once when it is still
// Default, and starts polling only when it ends up Granted.
func (p *Poller) Start(ctx context.Context) (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return Granted, ErrAlreadyRunning
	}

	perm := p.notifier.Permission()
	asked := false
	if perm == Default {
		var err error
		perm, err = p.notifier.RequestPermission(ctx)
		if err != nil {
			p.log.WithError(err).Warn("notification permission request failed")
		}
		asked = true
	}
	p.log.WithField("permission", perm.String()).Info("notification permission")
	if perm != Granted {
		return perm, nil
	}
	if asked && p.opts.Welcome {
		if err := p.notifier.Notify(ctx, welcome()); err != nil {
			p.log.WithError(err).Warn("welcome notification failed")
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	go p.loop(loopCtx)
	return perm, nil
}

// Stop stops the ticker and waits for in-flight polls to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.spawn(ctx, p.poll)
	t := time.NewTicker(p.opts.Interval)
	defer t.Stop()

	var remind <-chan time.Time
	if p.opts.ReminderInterval > 0 {
		rt := time.NewTicker(p.opts.ReminderInterval)
		defer rt.Stop()
		remind = rt.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.spawn(ctx, p.poll)
		case <-remind:
			p.spawn(ctx, p.remind)
		}
	}
}

func (p *Poller) spawn(ctx context.Context, fn func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fn(ctx)
	}()
}

func (p *Poller) poll(ctx context.Context) {
	_, _ = p.PollOnce(ctx)
}

func (p *Poller) remind(ctx context.Context) {
	_, _ = p.Remind(ctx)
}

// PollOnce runs one poll cycle and returns the notifications it sent.
// A failed fetch leaves the notified sets untouched; a notification that
// could not be delivered is offered again on the next poll.
func (p *Poller) PollOnce(ctx context.Context) ([]Notification, error) {
	check, err := p.checker.NotificationCheck(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.WithError(err).Warn("notification check failed")
		}
		return nil, err
	}

	var sent []Notification
	for _, cat := range Categories {
		for _, t := range p.state.Admit(cat, listFor(cat, check)) {
			n := Build(cat, t, p.opts.Location)
			if err := p.notifier.Notify(ctx, n); err != nil {
				p.log.WithError(err).WithFields(logrus.Fields{"task_id": t.ID, "category": string(cat)}).Warn("notify failed; retrying next poll")
				p.state.Forget(cat, t.ID)
				continue
			}
			p.log.WithFields(logrus.Fields{"task_id": t.ID, "category": string(cat)}).Info("notified")
			sent = append(sent, n)
		}
	}
	for _, cat := range Categories {
		p.state.Prune(cat, listFor(cat, check))
	}
	p.log.WithFields(logrus.Fields{
		"overdue":   len(check.Overdue),
		"due_soon":  len(check.DueSoon),
		"due_today": len(check.DueToday),
		"sent":      len(sent),
	}).Debug("notification check")
	return sent, nil
}

// Remind sends one digest notification when any task is overdue.
func (p *Poller) Remind(ctx context.Context) (*Notification, error) {
	check, err := p.checker.NotificationCheck(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.WithError(err).Warn("overdue reminder check failed")
		}
		return nil, err
	}
	if len(check.Overdue) == 0 {
		return nil, nil
	}
	n := reminder(len(check.Overdue))
	if err := p.notifier.Notify(ctx, n); err != nil {
		return nil, err
	}
	return &n, nil
}
