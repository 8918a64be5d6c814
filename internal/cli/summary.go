package cli

import (
	"fmt"
	"time"

	"tasky-cli/internal/summary"

	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var force, includeClosed, render bool
	var width int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate (or fetch the cached) AI summary of open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			svc := summary.NewService(app.api(), app.preferences(ctx),
				summary.WithLogger(app.Log),
				summary.WithFormatter(summary.Formatter{Sanitize: summary.StrictSanitizer()}),
			)
			if !cmd.Flags().Changed("include-closed") {
				includeClosed = app.Config.Summary.IncludeClosed
			}
			v, err := svc.Generate(ctx, summary.Request{Force: force, IncludeClosed: includeClosed})
			if err != nil {
				return writeErr(cmd, err)
			}
			if render {
				out := summary.RenderTerminal(v.Summary, width, "")
				if v.CacheBadge != "" {
					out += "\n\n" + v.CacheBadge
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": v},
				header:  []string{"CACHED", "UPDATED", "SUMMARY"},
				rows:    [][]string{{v.CacheBadge, v.Timestamp.Format(time.RFC3339), summary.PlainText(v.HTML)}},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Regenerate even when a cached summary exists")
	cmd.Flags().BoolVar(&includeClosed, "include-closed", false, "Include completed and cancelled tasks")
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal instead of structured output")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")

	cmd.AddCommand(newSummaryStatusCmd(app))
	return cmd
}

func newSummaryStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the server cache status and when the last summary was received",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			svc := summary.NewService(app.api(), app.preferences(ctx), summary.WithLogger(app.Log))
			st, err := svc.CacheStatus(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			meta := map[string]any{}
			if label, ok := svc.LastUpdated(ctx, time.Now()); ok {
				meta["lastUpdated"] = label
			}
			if ok, reason, err := svc.Available(ctx); err == nil {
				meta["available"] = ok
				meta["provider"] = reason
			}
			return writeOut(cmd, app, map[string]any{"data": st, "meta": meta})
		},
	}
}
