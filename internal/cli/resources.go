package cli

import (
	"encoding/json"
	"strings"
	"time"

	"tasky-cli/internal/api"
	"tasky-cli/internal/duedate"
	"tasky-cli/internal/model"
	"tasky-cli/internal/view"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newResourcesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Deals, meetings, topics, projects and teams",
	}
	cmd.AddCommand(newResourcesListCmd(app))
	cmd.AddCommand(newResourcesShowCmd(app))
	cmd.AddCommand(newResourcesDeleteCmd(app))
	return cmd
}

func resourceArg(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if !api.KnownResource(args[0]) {
		return errInvalidValue("resource", args[0], api.Resources)
	}
	return nil
}

func newResourcesListCmd(app *App) *cobra.Command {
	var fs view.FilterState

	cmd := &cobra.Command{
		Use:   "list <deals|meetings|topics|projects|teams>",
		Short: "List a resource collection",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(cmd, args); err != nil {
				return err
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			spec, ok := view.SortSpecFor(fs.SortBy)
			if fs.SortBy != "" && !ok {
				return writeErr(cmd, errInvalidValue("sort", fs.SortBy, nil))
			}
			switch args[0] {
			case "deals":
				deals, err := app.api().Deals().List(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				out := view.Sort(view.Filter(deals, fs), spec)
				return writeOut(cmd, app, dealsResult(out))
			case "meetings":
				meetings, err := app.api().Meetings().List(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				if fs.SortBy == "" {
					spec, _ = view.SortSpecFor("date")
				}
				out := view.Sort(view.Filter(meetings, fs), spec)
				return writeOut(cmd, app, meetingsResult(out))
			default:
				rc, err := api.NewResource[map[string]any](app.api(), args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				items, err := rc.List(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, genericResult(items))
			}
		},
	}

	cmd.Flags().StringVar(&fs.Search, "search", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&fs.Status, "status", "", "Filter by status (deal status for deals)")
	cmd.Flags().StringVar(&fs.Type, "type", "", "Filter by type (deal type for deals)")
	cmd.Flags().StringVar(&fs.Customer, "customer", "", "Filter by customer")
	cmd.Flags().StringVar(&fs.CustomerType, "customer-type", "", "Filter deals by customer type")
	cmd.Flags().StringVar(&fs.Project, "project", "", "Filter meetings by project")
	cmd.Flags().StringVar(&fs.FinancialYear, "financial-year", "", "Filter deals by financial year")
	cmd.Flags().StringVar(&fs.SortBy, "sort", "", "Sort by field (customer|dealForecast|dealActual|date_won|date|title|attendees|location)")
	return cmd
}

func dealsResult(deals []model.Deal) result {
	rows := make([][]string, 0, len(deals))
	for _, d := range deals {
		rows = append(rows, []string{d.ID, d.CustomerName, d.DealType, d.DealStatus, d.Field("dealForecast"), d.Field("dealActual"), d.FinancialYear})
	}
	return result{
		payload: map[string]any{"data": deals, "meta": map[string]any{"count": len(deals)}},
		header:  []string{"ID", "CUSTOMER", "TYPE", "STATUS", "FORECAST", "ACTUAL", "FY"},
		rows:    rows,
	}
}

func meetingsResult(meetings []model.Meeting) result {
	rows := make([][]string, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, []string{m.ID, m.Title, duedate.Format(m.Field("date"), time.Local), m.Location, m.CustomerName, m.Field("attendees")})
	}
	return result{
		payload: map[string]any{"data": meetings, "meta": map[string]any{"count": len(meetings)}},
		header:  []string{"ID", "TITLE", "WHEN", "LOCATION", "CUSTOMER", "ATTENDEES"},
		rows:    rows,
	}
}

func genericResult(items []map[string]any) result {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{stringField(it, "id"), firstField(it, "title", "name"), stringField(it, "status")})
	}
	if items == nil {
		items = []map[string]any{}
	}
	return result{
		payload: map[string]any{"data": items, "meta": map[string]any{"count": len(items)}},
		header:  []string{"ID", "NAME", "STATUS"},
		rows:    rows,
	}
}

func stringField(m map[string]any, k string) string {
	switch v := m[k].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return strings.Trim(string(b), `"`)
	}
}

func firstField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := stringField(m, k); v != "" {
			return v
		}
	}
	return ""
}

func newResourcesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <resource> <id>",
		Short: "Show one resource",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(cmd, args); err != nil {
				return err
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := api.NewResource[json.RawMessage](app.api(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := rc.Get(commandContext(cmd), args[1])
			if err != nil {
				if api.IsNotFound(err) {
					return writeErr(cmd, errNotFound(strings.TrimSuffix(args[0], "s"), args[1]))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": v})
		},
	}
}

func newResourcesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one resource",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := resourceArg(cmd, args); err != nil {
				return err
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := api.NewResource[json.RawMessage](app.api(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := rc.Delete(commandContext(cmd), args[1]); err != nil {
				if api.IsNotFound(err) {
					return writeErr(cmd, errNotFound(strings.TrimSuffix(args[0], "s"), args[1]))
				}
				return writeErr(cmd, err)
			}
			app.Log.WithFields(logrus.Fields{"resource": args[0], "id": args[1]}).Info("resource deleted")
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"resource": args[0], "id": args[1], "deleted": true}})
		},
	}
}
