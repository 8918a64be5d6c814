// Package tui is the interactive task board.
package tui

import (
	"context"
	"errors"

	"tasky-cli/internal/config"
	"tasky-cli/internal/model"
	"tasky-cli/internal/notify"
	"tasky-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Backend is the part of the REST client the board uses.
type Backend interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) (model.Task, error)
	Config(ctx context.Context) (model.Config, error)
	NotificationCheck(ctx context.Context) (model.NotificationCheck, error)
	Summary(ctx context.Context, req model.SummaryRequest) (model.SummaryResult, error)
	SummaryCacheStatus(ctx context.Context) (model.CacheStatus, error)
	Settings(ctx context.Context) (model.Settings, error)
}

type Deps struct {
	API    Backend
	Prefs  *store.Prefs
	Config config.Config
	// Path is the config file watched for live reloads; empty disables watching.
	Path string
	Log  logrus.FieldLogger
	// Notifier receives poller notifications next to the in-board banner.
	Notifier notify.Notifier
}

func Run(ctx context.Context, deps Deps) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newModel(ctx, deps)
	m.startBackground()
	defer m.shutdown()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
