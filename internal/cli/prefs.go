package cli

import (
	"encoding/json"
	"slices"

	"tasky-cli/internal/store"

	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Locally persisted preferences (JSON values)",
	}
	cmd.AddCommand(newPrefsListCmd(app))
	cmd.AddCommand(newPrefsGetCmd(app))
	cmd.AddCommand(newPrefsSetCmd(app))
	cmd.AddCommand(newPrefsDeleteCmd(app))
	return cmd
}

func newPrefsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := app.preferences(commandContext(cmd)).Keys(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			if keys == nil {
				keys = []string{}
			}
			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				known := ""
				if slices.Contains(store.KnownKeys, k) {
					known = "yes"
				}
				rows = append(rows, []string{k, known})
			}
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": keys, "meta": map[string]any{"known": store.KnownKeys}},
				header:  []string{"KEY", "KNOWN"},
				rows:    rows,
			})
		},
	}
}

func newPrefsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, ok := app.preferences(commandContext(cmd)).Raw(commandContext(cmd), args[0])
			if !ok {
				return writeErr(cmd, errNotFound("preference", args[0]))
			}
			var value any = json.RawMessage(raw)
			if !json.Valid([]byte(raw)) {
				value = raw
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": args[0], "value": value}})
		},
	}
}

func newPrefsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <json>",
		Short: "Store a JSON value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.preferences(commandContext(cmd)).SetRaw(commandContext(cmd), args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": args[0], "value": json.RawMessage(args[1])}})
		},
	}
}

func newPrefsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.preferences(commandContext(cmd)).Delete(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": args[0], "deleted": true}})
		},
	}
}
