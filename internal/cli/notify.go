package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasky-cli/internal/config"
	"tasky-cli/internal/notify"
	"tasky-cli/internal/summary"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Due-date notifications",
	}
	cmd.AddCommand(newNotifyWatchCmd(app))
	cmd.AddCommand(newNotifyCheckCmd(app))
	cmd.AddCommand(newNotifyRemindCmd(app))
	cmd.AddCommand(newNotifyTestCmd(app))
	return cmd
}

func (app *App) terminalNotifier() *notify.TerminalNotifier {
	return notify.NewTerminalNotifier(os.Stdout, notify.TerminalOptions{
		Enabled: app.Config.Notifications.Enabled,
		Bell:    app.Config.Notifications.Bell,
	})
}

func pollerOptions(c config.Config) notify.Options {
	return notify.Options{
		Interval:         c.Notifications.Interval.Duration,
		ReminderInterval: c.Notifications.ReminderInterval.Duration,
		Welcome:          true,
	}
}

func newNotifyWatchCmd(app *App) *cobra.Command {
	var withSummary bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for due tasks and notify until interrupted",
		Long: `Polls the server for overdue, due-soon and due-today tasks and raises a
desktop notification (OSC 777) for each task entering a category. Every
notification is also printed to stdout as a JSON line. Edits to config.toml
are picked up while running: setting notifications.enabled = false pauses
polling.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			term := app.terminalNotifier()
			if _, err := term.RequestPermission(ctx); err != nil {
				app.Log.WithError(err).Warn("desktop notification permission")
			}
			printer := notify.NewChannelNotifier(32)
			notifier := notify.Multi{term, printer}

			reload := make(chan config.Config, 1)
			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return printNotifications(gctx, cmd.OutOrStdout(), printer.C())
			})

			g.Go(func() error {
				var p *notify.Poller
				start := func(c config.Config) {
					p = notify.NewPoller(app.api(), notifier, app.Log, pollerOptions(c))
					perm, err := p.Start(gctx)
					if err != nil {
						app.Log.WithError(err).Warn("poller start")
					}
					app.Log.WithField("permission", perm.String()).Info("notification poller started")
				}
				if app.Config.Notifications.Enabled {
					start(app.Config)
				} else {
					app.Log.Info("notifications disabled; waiting for config change")
				}
				for {
					select {
					case <-gctx.Done():
						if p != nil {
							p.Stop()
						}
						return nil
					case c := <-reload:
						if p != nil {
							p.Stop()
							p = nil
						}
						if c.Notifications.Enabled {
							start(c)
						} else {
							app.Log.Info("notifications paused")
						}
					}
				}
			})

			g.Go(func() error {
				err := config.Watch(gctx, app.ConfigPath, app.Log, func(c config.Config) {
					select {
					case <-reload:
					default:
					}
					reload <- c
				})
				if err != nil {
					app.Log.WithError(err).Warn("config watch unavailable")
				}
				return nil
			})

			if withSummary {
				svc := summary.NewService(app.api(), app.preferences(ctx), summary.WithLogger(app.Log))
				g.Go(func() error {
					enc := json.NewEncoder(cmd.OutOrStdout())
					svc.Run(gctx, app.Config.Summary.AutoInterval.Duration, app.Config.Summary.IncludeClosed, func(v summary.View, err error) {
						if err != nil {
							_ = enc.Encode(map[string]any{"summaryError": err.Error()})
							return
						}
						_ = enc.Encode(map[string]any{"summary": v})
					})
					return nil
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&withSummary, "summary", false, "Also refresh the AI summary on the configured interval")
	return cmd
}

func printNotifications(ctx context.Context, w io.Writer, ch <-chan notify.Notification) error {
	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-ch:
			if err := enc.Encode(map[string]any{"notification": n, "at": time.Now().Format(time.RFC3339)}); err != nil {
				return err
			}
		}
	}
}

func newNotifyCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one poll and print the notifications it would raise",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := notify.NewRecorder(notify.Granted, notify.Granted)
			p := notify.NewPoller(app.api(), rec, app.Log, pollerOptions(app.Config))
			sent, err := p.PollOnce(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			if sent == nil {
				sent = []notify.Notification{}
			}
			rows := make([][]string, 0, len(sent))
			for _, n := range sent {
				rows = append(rows, []string{string(n.Category), n.TaskID, n.Title, n.Body})
			}
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": sent, "meta": map[string]any{"count": len(sent)}},
				header:  []string{"CATEGORY", "TASK", "TITLE", "BODY"},
				rows:    rows,
			})
		},
	}
}

func newNotifyRemindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send one overdue digest notification when anything is overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			term := app.terminalNotifier()
			_, _ = term.RequestPermission(ctx)
			rec := notify.NewRecorder(notify.Granted, notify.Granted)
			p := notify.NewPoller(app.api(), notify.Multi{term, rec}, app.Log, pollerOptions(app.Config))
			n, err := p.Remind(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
}

func newNotifyTestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Raise a test desktop notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			term := app.terminalNotifier()
			perm, err := term.RequestPermission(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			n := notify.Notification{
				Title:   "tasky",
				Body:    "This is a test notification",
				Timeout: notify.DefaultTimeout,
			}
			if err := term.Notify(ctx, n); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": n,
				"meta": map[string]any{"permission": perm.String(), "delivered": perm == notify.Granted},
			})
		},
	}
}
