package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tasky-cli/internal/api"
	"tasky-cli/internal/board"
	"tasky-cli/internal/duedate"
	"tasky-cli/internal/model"
	"tasky-cli/internal/store"
	"tasky-cli/internal/view"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksFindCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var fs view.FilterState
	var asBoard bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (closed tasks hidden unless --all)",
		Example: strings.TrimSpace(`
  tasky tasks list --priority High --sort follow_up_date
  tasky tasks list --group-by status --format table
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if fs.GroupBy == "" && asBoard {
				fs.GroupBy = app.Config.Board.GroupBy
			}
			if !cmd.Flags().Changed("sort") {
				fs.SortBy = app.Config.Board.SortBy
			}
			if !cmd.Flags().Changed("all") {
				fs.ShowClosed = fs.ShowClosed || app.Config.Board.ShowClosed
			}
			spec, ok := view.SortSpecFor(fs.SortBy)
			if fs.SortBy != "" && !ok {
				return writeErr(cmd, errInvalidValue("sort", fs.SortBy, nil))
			}

			tasks, err := app.api().ListTasks(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			visible := view.Sort(view.Filter(tasks, fs), spec)

			if fs.GroupBy != "" {
				if _, err := (model.Task{}).WithGroupValue(fs.GroupBy, ""); err != nil {
					return writeErr(cmd, errInvalidValue("group-by", fs.GroupBy, []string{"status", "category", "priority", "customer"}))
				}
				cfg := store.NewConfigCache(app.api(), app.Log).Load(ctx)
				opts, configured := cfg.OptionsFor(fs.GroupBy)
				return writeOut(cmd, app, boardResult(view.Group(visible, fs.GroupBy, opts, configured)))
			}

			return writeOut(cmd, app, result{
				payload: map[string]any{
					"data": visible,
					"meta": map[string]any{"count": len(visible), "total": len(tasks)},
				},
				header: taskHeader(),
				rows:   taskRows(visible, time.Now()),
			})
		},
	}

	cmd.Flags().StringVar(&fs.Search, "search", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&fs.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&fs.Priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&fs.Customer, "customer", "", "Filter by customer")
	cmd.Flags().StringVar(&fs.Type, "category", "", "Filter by category")
	cmd.Flags().StringVar(&fs.Assignee, "assignee", "", "Filter by assignee")
	cmd.Flags().StringVar(&fs.Project, "project", "", "Filter by project id")
	cmd.Flags().BoolVar(&fs.ShowClosed, "all", false, "Include completed and cancelled tasks")
	cmd.Flags().StringVar(&fs.SortBy, "sort", "", "Sort by field (title|status|priority|customer|follow_up_date|created_date)")
	cmd.Flags().StringVar(&fs.GroupBy, "group-by", "", "Group into board columns (status|category|priority|customer)")
	cmd.Flags().BoolVar(&asBoard, "board", false, "Group by the configured board field")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.api().GetTask(commandContext(cmd), args[0])
			if err != nil {
				if api.IsNotFound(err) {
					return writeErr(cmd, errNotFound("task", args[0]))
				}
				return writeErr(cmd, err)
			}
			now := time.Now()
			c := duedate.Classify(t.FollowUpDate, t.IsClosed(), now)
			meta := map[string]any{
				"overdue":  c.Overdue,
				"dueSoon":  c.DueSoon,
				"dueToday": c.DueToday,
				"due":      duedate.Format(t.FollowUpDate, nil),
			}
			if c.Overdue {
				meta["overdueLabel"] = duedate.OverdueLabel(t.FollowUpDate, now)
			}
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": t, "meta": meta},
				header:  taskHeader(),
				rows:    taskRows([]model.Task{t}, now),
			})
		},
	}
}

// taskFlags are the editable task fields shared by create and update.
type taskFlags struct {
	title, description, customer, category, priority, status, due, assignee, tags, project string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	cmd.Flags().StringVar(&f.description, "description", "", "Task description")
	cmd.Flags().StringVar(&f.customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (Low|Medium|High|Urgent|Critical)")
	cmd.Flags().StringVar(&f.status, "status", "", "Status")
	cmd.Flags().StringVar(&f.due, "due", "", "Follow-up date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.project, "project", "", "Project id (empty clears)")
}

// apply copies the flags the user set onto t.
func (f *taskFlags) apply(cmd *cobra.Command, t *model.Task) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = strings.TrimSpace(v)
		}
	}
	set("title", &t.Title, f.title)
	set("description", &t.Description, f.description)
	set("customer", &t.CustomerName, f.customer)
	set("category", &t.Category, f.category)
	set("priority", &t.Priority, f.priority)
	set("status", &t.Status, f.status)
	set("due", &t.FollowUpDate, f.due)
	set("assignee", &t.AssignedTo, f.assignee)
	set("tags", &t.Tags, f.tags)
	if cmd.Flags().Changed("project") {
		if p := strings.TrimSpace(f.project); p != "" {
			t.ProjectID = &p
		} else {
			t.ProjectID = nil
		}
	}
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.Task{Status: model.StatusOpen, Priority: model.PriorityMedium}
			f.apply(cmd, &t)
			if err := t.Validate(duedate.Valid); err != nil {
				return writeErr(cmd, err)
			}
			res, err := app.api().CreateTask(commandContext(cmd), t)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.Log.WithField("task_id", res.Task.ID).Info("task created")
			out := map[string]any{"data": res.Task}
			if len(res.Similar) > 0 {
				out["meta"] = map[string]any{"similarTasks": res.Similar}
			}
			return writeOut(cmd, app, result{
				payload: out,
				header:  taskHeader(),
				rows:    taskRows([]model.Task{res.Task}, time.Now()),
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update fields of a task (the full task is saved)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			t, err := app.api().GetTask(ctx, args[0])
			if err != nil {
				if api.IsNotFound(err) {
					return writeErr(cmd, errNotFound("task", args[0]))
				}
				return writeErr(cmd, err)
			}
			f.apply(cmd, &t)
			if err := t.Validate(duedate.Valid); err != nil {
				return writeErr(cmd, err)
			}
			saved, err := app.api().UpdateTask(ctx, t)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.Log.WithField("task_id", saved.ID).Info("task updated")
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": saved},
				header:  taskHeader(),
				rows:    taskRows([]model.Task{saved}, time.Now()),
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.api().DeleteTask(commandContext(cmd), args[0]); err != nil {
				if api.IsNotFound(err) {
					return writeErr(cmd, errNotFound("task", args[0]))
				}
				return writeErr(cmd, err)
			}
			app.Log.WithField("task_id", args[0]).Info("task deleted")
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

func newTasksMoveCmd(app *App) *cobra.Command {
	var groupBy, to string

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to another board column",
		Long: strings.TrimSpace(`
Moves a task the way dragging its card does: the grouping field is set to the
target column's value and the full task is saved. Moving to the card's own
column makes no request. Use --to "" for the Unassigned / No <field> column.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if groupBy == "" {
				groupBy = app.Config.Board.GroupBy
			}
			to = strings.TrimSpace(to)
			cfg := store.NewConfigCache(app.api(), app.Log).Load(ctx)
			opts, configured := cfg.OptionsFor(groupBy)
			if configured && to != "" && !slices.Contains(opts, to) {
				return writeErr(cmd, errInvalidValue(groupBy, to, opts))
			}

			cache, err := app.tasks(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec := board.NewReconciler(cache, app.api(), app.Log)
			out, err := rec.Move(ctx, args[0], groupBy, board.ValueTarget(to, opts, configured))
			if err != nil {
				if errors.Is(err, board.ErrUnknownTask) {
					return writeErr(cmd, errNotFound("task", args[0]))
				}
				return writeErr(cmd, err)
			}

			trace := make([]string, 0, len(out.Trace))
			for _, p := range out.Trace {
				trace = append(trace, p.String())
			}
			payload := map[string]any{
				"data": out.Task,
				"meta": map[string]any{"outcome": outcomeName(out.Kind), "groupBy": groupBy, "trace": trace},
			}
			if out.Kind == board.Reverted {
				_ = writeOut(cmd, app, payload)
				return writeErr(cmd, fmt.Errorf("move reverted: %w", out.Err))
			}
			return writeOut(cmd, app, result{
				payload: payload,
				header:  taskHeader(),
				rows:    taskRows([]model.Task{out.Task}, time.Now()),
			})
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", "", "Board grouping field (status|category|priority|customer)")
	cmd.Flags().StringVar(&to, "to", "", "Target column value")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func outcomeName(k board.OutcomeKind) string {
	switch k {
	case board.Saved:
		return "saved"
	case board.Reverted:
		return "reverted"
	default:
		return "noop"
	}
}

func newTasksFindCmd(app *App) *cobra.Command {
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find tasks by title, customer and description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.api().ListTasks(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks = view.Filter(tasks, view.FilterState{ShowClosed: all})
			hits := view.Find(tasks, strings.Join(args, " "), limit)
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": hits, "meta": map[string]any{"count": len(hits)}},
				header:  taskHeader(),
				rows:    taskRows(hits, time.Now()),
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results")
	cmd.Flags().BoolVar(&all, "all", false, "Include completed and cancelled tasks")
	return cmd
}
