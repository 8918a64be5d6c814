package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"tasky-cli/internal/api"
	"tasky-cli/internal/config"
	"tasky-cli/internal/duedate"
	"tasky-cli/internal/notify"
	"tasky-cli/internal/store"
	"tasky-cli/internal/summary"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

type doctorLevel string

const (
	doctorError doctorLevel = "error"
	doctorWarn  doctorLevel = "warn"
)

type doctorIssue struct {
	Level   doctorLevel `json:"level"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Path    string      `json:"path,omitempty"`
	TaskID  string      `json:"taskId,omitempty"`
}

type doctorReport struct {
	Issues []doctorIssue `json:"issues"`
}

func (r *doctorReport) add(level doctorLevel, code, msg string) *doctorIssue {
	r.Issues = append(r.Issues, doctorIssue{Level: level, Code: code, Message: msg})
	return &r.Issues[len(r.Issues)-1]
}

func (r doctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == doctorError {
			return true
		}
	}
	return false
}

func (r doctorReport) Header() []string { return []string{"LEVEL", "CODE", "MESSAGE"} }

func (r doctorReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Issues))
	for _, it := range r.Issues {
		rows = append(rows, []string{string(it.Level), it.Code, it.Message})
	}
	return rows
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, server, preferences and notification setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			var report doctorReport

			if _, err := os.Stat(app.ConfigPath); errors.Is(err, os.ErrNotExist) {
				report.add(doctorWarn, "config.missing", "no config file; defaults in use").Path = app.ConfigPath
			} else if _, err := config.Load(app.ConfigPath); err != nil {
				report.add(doctorError, "config.invalid", err.Error()).Path = app.ConfigPath
			}

			client := app.api()
			tasks, err := client.ListTasks(ctx)
			if err != nil {
				var apiErr *api.Error
				code := "server.unreachable"
				if errors.As(err, &apiErr) {
					code = fmt.Sprintf("server.status_%d", apiErr.Status)
				}
				report.add(doctorError, code, api.ErrorMessage(err))
			}
			for _, t := range tasks {
				if d := strings.TrimSpace(t.FollowUpDate); d != "" && !duedate.Valid(d) {
					it := report.add(doctorWarn, "task.follow_up_date", fmt.Sprintf("%q has an unparseable follow-up date %q", t.Title, d))
					it.TaskID = t.ID
				}
			}

			if err == nil {
				if ok, reason, aerr := summary.NewService(client, nil).Available(ctx); aerr != nil {
					report.add(doctorWarn, "ai.unavailable", api.ErrorMessage(aerr))
				} else if !ok {
					report.add(doctorWarn, "ai.unavailable", reason)
				}
			}

			if kv, err := store.OpenSQLiteKV(ctx, app.dataDir()); err != nil {
				report.add(doctorWarn, "prefs.unavailable", err.Error()).Path = app.dataDir()
			} else {
				_ = kv.Close()
			}

			switch {
			case !app.Config.Notifications.Enabled:
				report.add(doctorWarn, "notify.disabled", "notifications are disabled in the config file")
			case app.terminalNotifier().Permission() == notify.Unsupported:
				report.add(doctorWarn, "notify.unsupported", "stdout is not a terminal; desktop notifications are off")
			}

			if report.Issues == nil {
				report.Issues = []doctorIssue{}
			}
			if err := writeOut(cmd, app, result{
				payload: map[string]any{
					"data": report,
					"meta": map[string]any{
						"issues":    len(report.Issues),
						"hasErrors": report.HasErrors(),
					},
					"_hints": []string{"tasky config show", "tasky settings show"},
				},
				header: report.Header(),
				rows:   report.Rows(),
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
