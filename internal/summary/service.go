// Package summary requests AI task summaries and renders them with their cache provenance.
package summary

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"tasky-cli/internal/api"
	"tasky-cli/internal/model"
	"tasky-cli/internal/store"

	"github.com/sirupsen/logrus"
)

// DefaultAutoInterval is the auto-refresh cadence; the server decides whether
// each request is served from its cache.
const DefaultAutoInterval = 30 * time.Minute

var (
	ErrInFlight      = errors.New("a summary request is already in progress")
	ErrAPIKeyMissing = errors.New("API key not configured")
	ErrAIDisabled    = errors.New("AI features are disabled")
)

// Failure is a summary error with user-facing guidance.
type Failure struct {
	// Kind is ErrAPIKeyMissing, ErrAIDisabled, or nil for other failures.
	Kind  error
	Title string
	Hint  string
	// Transport is true when no server response was received.
	Transport bool
	Cause     error
}

func (f *Failure) Error() string {
	if f.Hint == "" {
		return f.Title
	}
	return f.Title + ": " + f.Hint
}

func (f *Failure) Unwrap() []error {
	var out []error
	if f.Kind != nil {
		out = append(out, f.Kind)
	}
	if f.Cause != nil {
		out = append(out, f.Cause)
	}
	return out
}

// HTML renders the failure the way the summary pane shows it.
func (f *Failure) HTML() string {
	if f.Hint == "" {
		return `<div class="summary-error"><p>` + f.Title + `</p></div>`
	}
	return `<div class="summary-error"><p>` + f.Title + `</p><small>` + f.Hint + `</small></div>`
}

// classify maps a request error onto guidance. Server messages are escaped
// before they become part of the displayed text.
func classify(err error) *Failure {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return &Failure{
			Title:     "❌ Error generating summary: " + template.HTMLEscapeString(err.Error()),
			Transport: true,
			Cause:     err,
		}
	}
	msg := apiErr.Message
	switch {
	case strings.Contains(msg, "API key"):
		return &Failure{
			Kind:  ErrAPIKeyMissing,
			Title: "⚠️ API key not configured",
			Hint:  `Please add your Anthropic API key in Settings to enable AI summaries, or select "None" as the AI tool for local summaries.`,
			Cause: err,
		}
	case strings.Contains(msg, "AI features are disabled"):
		return &Failure{
			Kind:  ErrAIDisabled,
			Title: "⚠️ AI features are disabled",
			Hint:  "This operation requires Claude AI. Please select Claude as the AI provider in Settings.",
			Cause: err,
		}
	default:
		return &Failure{Title: "❌ Error: " + template.HTMLEscapeString(msg), Cause: err}
	}
}

type Request struct {
	Force         bool
	IncludeClosed bool
}

// View is a rendered summary.
type View struct {
	Summary         string    `json:"summary"`
	HTML            string    `json:"html"`
	Cached          bool      `json:"cached"`
	CacheAgeMinutes int       `json:"cacheAgeMinutes,omitempty"`
	CacheBadge      string    `json:"cacheBadge,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Backend is the part of the API client the summary flow uses.
type Backend interface {
	Summary(ctx context.Context, req model.SummaryRequest) (model.SummaryResult, error)
	SummaryCacheStatus(ctx context.Context) (model.CacheStatus, error)
	Settings(ctx context.Context) (model.Settings, error)
}

type Service struct {
	backend   Backend
	prefs     *store.Prefs
	formatter Formatter
	log       logrus.FieldLogger
	now       func() time.Time

	inflight sync.Mutex
}

type Option func(*Service)

func WithFormatter(f Formatter) Option { return func(s *Service) { s.formatter = f } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(b Backend, prefs *store.Prefs, opts ...Option) *Service {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	s := &Service{backend: b, prefs: prefs, log: l, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.prefs == nil {
		s.prefs = store.NewPrefs(nil)
	}
	return s
}

// Generate requests a summary. Only one request runs at a time; a second
// caller gets ErrInFlight. Failures are returned as *Failure.
func (s *Service) Generate(ctx context.Context, req Request) (View, error) {
	if !s.inflight.TryLock() {
		return View{}, ErrInFlight
	}
	defer s.inflight.Unlock()

	log := s.log.WithFields(logrus.Fields{"force": req.Force, "include_closed": req.IncludeClosed})
	res, err := s.backend.Summary(ctx, model.SummaryRequest{
		IncludeCompletedCancelled: req.IncludeClosed,
		ForceRegenerate:           req.Force,
	})
	if err != nil {
		f := classify(err)
		log.WithError(err).Warn("summary failed")
		return View{}, f
	}

	ts := s.now()
	if res.CacheTimestamp != "" {
		if t, ok := parseServerTime(res.CacheTimestamp); ok {
			ts = t
		}
	}
	if err := s.prefs.SetLastSummaryTime(ctx, ts); err != nil {
		log.WithError(err).Warn("persist last summary time")
	}
	log.WithFields(logrus.Fields{"cached": res.Cached, "cache_age_minutes": res.CacheAgeMinutes}).Info("summary ready")

	return View{
		Summary:         res.Summary,
		HTML:            s.formatter.Format(res.Summary),
		Cached:          res.Cached,
		CacheAgeMinutes: res.CacheAgeMinutes,
		CacheBadge:      CacheBadge(res.Cached, res.CacheAgeMinutes),
		Timestamp:       ts,
	}, nil
}

// Run requests a summary immediately and then every interval, never forcing
// regeneration. Ticks that find a request in flight are skipped. It returns
// when ctx is done.
func (s *Service) Run(ctx context.Context, every time.Duration, includeClosed bool, onResult func(View, error)) {
	if every <= 0 {
		every = DefaultAutoInterval
	}
	run := func() {
		v, err := s.Generate(ctx, Request{IncludeClosed: includeClosed})
		if errors.Is(err, ErrInFlight) || ctx.Err() != nil {
			return
		}
		if onResult != nil {
			onResult(v, err)
		}
	}
	run()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}

// LastUpdated renders "Last updated" from the persisted timestamp, without a fetch.
func (s *Service) LastUpdated(ctx context.Context, now time.Time) (string, bool) {
	t, ok := s.prefs.LastSummaryTime(ctx)
	if !ok {
		return "", false
	}
	return Ago(t, now), true
}

func (s *Service) CacheStatus(ctx context.Context) (model.CacheStatus, error) {
	return s.backend.SummaryCacheStatus(ctx)
}

// Available reports whether the configured provider can produce a summary,
// with a reason when it cannot.
func (s *Service) Available(ctx context.Context) (bool, string, error) {
	st, err := s.backend.Settings(ctx)
	if err != nil {
		return false, "", err
	}
	switch strings.ToLower(strings.TrimSpace(st.AIProvider)) {
	case "", model.ProviderNone:
		return true, "local summaries (no AI provider)", nil
	case model.ProviderClaude:
		if !st.HasKey() {
			return false, ErrAPIKeyMissing.Error(), nil
		}
		return true, "claude", nil
	default:
		return false, fmt.Sprintf("unknown AI provider %q", st.AIProvider), nil
	}
}

var serverTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseServerTime accepts RFC 3339 and naive ISO timestamps; naive ones are local.
func parseServerTime(s string) (time.Time, bool) {
	for _, layout := range serverTimeLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
