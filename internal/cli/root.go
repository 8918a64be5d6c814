package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tasky-cli/internal/api"
	"tasky-cli/internal/config"
	"tasky-cli/internal/format"
	"tasky-cli/internal/logging"
	"tasky-cli/internal/store"
	"tasky-cli/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	ConfigPath string
	PrettyJSON bool
	Format     string
	LogStderr  bool

	Config config.Config
	Log    *logrus.Logger

	client    *api.Client
	prefs     *store.Prefs
	closers   []io.Closer
	taskCache *store.TaskCache
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasky",
		Short:        "Task board, due-date notifications and AI summaries for a tasky server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  tasky

  # Scriptable commands
  tasky tasks list --status Open --format table

  # Move a task to another column
  tasky tasks move task-42 --group-by status --to Completed

  # Run the due-date notifier in the foreground
  tasky notify watch
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr(config.EnvServer, ""), "Server base URL (default from config.toml, then "+config.DefaultServerURL+")")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr(config.EnvConfig, ""), "Path to config.toml (default ~/.tasky/config.toml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr(config.EnvFormat, "json"), "Output format (json|table)")
	cmd.PersistentFlags().BoolVar(&app.LogStderr, "log-stderr", false, "Write logs to stderr instead of the log file")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newResourcesCmd(app))
	cmd.AddCommand(newPrefsCmd(app))
	cmd.AddCommand(newNotifyCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init resolves configuration and logging. Flags override env, env overrides
// config.toml.
func (app *App) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return writeErr(cmd, fmt.Errorf("load .env: %w", err))
	}
	path := app.ConfigPath
	if path == "" {
		path = config.Path()
	}
	app.ConfigPath = path
	cfg, cfgErr := config.Load(path)
	cfg = config.ApplyEnv(cfg)
	if app.Server != "" {
		cfg.Server.URL = strings.TrimRight(app.Server, "/")
	}
	app.Config = cfg

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(app.dataDir(), "tasky.log")
	}
	l, c := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile, Stderr: app.LogStderr})
	app.Log = l
	app.closers = append(app.closers, c)
	if cfgErr != nil {
		l.WithError(cfgErr).Warn("using default configuration")
	}
	return nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i].Close()
	}
	app.closers = nil
}

func (app *App) dataDir() string {
	return filepath.Dir(app.ConfigPath)
}

func (app *App) api() *api.Client {
	if app.client == nil {
		app.client = api.New(app.Config.Server.URL,
			api.WithTimeout(app.Config.Server.Timeout.Duration),
			api.WithRateLimit(app.Config.Server.RateLimit, app.Config.Server.Burst),
			api.WithLogger(app.Log),
		)
	}
	return app.client
}

// preferences opens the SQLite preference store, falling back to memory when
// the data directory is not writable.
func (app *App) preferences(ctx context.Context) *store.Prefs {
	if app.prefs != nil {
		return app.prefs
	}
	kv, err := store.OpenSQLiteKV(ctx, app.dataDir())
	if err != nil {
		app.Log.WithError(err).Warn("preferences unavailable; using memory")
		app.prefs = store.NewPrefs(store.NewMemoryKV())
		return app.prefs
	}
	app.closers = append(app.closers, kv)
	app.prefs = store.NewPrefs(kv)
	return app.prefs
}

// tasks returns a task cache loaded from the server.
func (app *App) tasks(ctx context.Context) (*store.TaskCache, error) {
	if app.taskCache != nil {
		return app.taskCache, nil
	}
	c := store.NewTaskCache(app.api())
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	app.taskCache = c
	return c, nil
}

func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.Run(ctx, tui.Deps{
		API:    app.api(),
		Prefs:  app.preferences(ctx),
		Config: app.Config,
		Path:   app.ConfigPath,
		Log:    app.Log,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), api.ErrorMessage(err))
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
