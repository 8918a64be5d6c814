package cli

import (
	"strings"

	"tasky-cli/internal/model"
	"tasky-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Server option lists and local client configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the server option lists (defaults fill anything missing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := store.NewConfigCache(app.api(), app.Log).Load(commandContext(cmd))
			rows := [][]string{
				{"statuses", strings.Join(cfg.Statuses, ", ")},
				{"categories", strings.Join(cfg.Categories, ", ")},
				{"priorities", strings.Join(cfg.Priorities, ", ")},
				{"tags", strings.Join(cfg.Tags, ", ")},
				{"dealStatuses", strings.Join(cfg.DealStatuses, ", ")},
				{"dealTypes", strings.Join(cfg.DealTypes, ", ")},
				{"dealCustomerTypes", strings.Join(cfg.DealCustomerTypes, ", ")},
				{"csmLocations", strings.Join(cfg.CSMLocations, ", ")},
			}
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": cfg},
				header:  []string{"LIST", "OPTIONS"},
				rows:    rows,
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "local",
		Short: "Show the resolved client configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"data": app.Config,
				"meta": map[string]any{"path": app.ConfigPath},
			})
		},
	})
	return cmd
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "AI provider and notification settings stored on the server",
	}
	cmd.AddCommand(newSettingsShowCmd(app))
	cmd.AddCommand(newSettingsSetProviderCmd(app))
	cmd.AddCommand(newSettingsSetKeyCmd(app))
	return cmd
}

// settingsResult never carries the raw key.
func settingsResult(s model.Settings) result {
	key := "(not set)"
	if s.HasKey() {
		if !s.KeyMasked() {
			s.APIKey = model.MaskKey(s.APIKey)
		}
		key = s.APIKey
	}
	return result{
		payload: map[string]any{"data": s},
		header:  []string{"SETTING", "VALUE"},
		rows: [][]string{
			{"ai_provider", s.AIProvider},
			{"api_key", key},
		},
	}
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show settings (the API key is masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.api().Settings(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, settingsResult(s))
		},
	}
}

func newSettingsSetProviderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-provider <claude|none>",
		Short: "Select the AI provider used for summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := strings.ToLower(strings.TrimSpace(args[0]))
			if p != model.ProviderClaude && p != model.ProviderNone {
				return writeErr(cmd, errInvalidValue("provider", args[0], []string{model.ProviderClaude, model.ProviderNone}))
			}
			ctx := commandContext(cmd)
			s, err := app.api().Settings(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			s.AIProvider = p
			if err := app.api().SaveSettings(ctx, s); err != nil {
				return writeErr(cmd, err)
			}
			app.Log.WithField("provider", p).Info("ai provider changed")
			return writeOut(cmd, app, settingsResult(s))
		},
	}
}

func newSettingsSetKeyCmd(app *App) *cobra.Command {
	var fromEnv string

	cmd := &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the Anthropic API key on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = strings.TrimSpace(args[0])
			} else if fromEnv != "" {
				key = strings.TrimSpace(envOr(fromEnv, ""))
			}
			if key == "" {
				return writeErr(cmd, errInvalidValue("api key", "", nil))
			}
			ctx := commandContext(cmd)
			s, err := app.api().Settings(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			s.APIKey = key
			if err := app.api().SaveSettings(ctx, s); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, settingsResult(s))
		},
	}

	cmd.Flags().StringVar(&fromEnv, "from-env", "", "Read the key from this environment variable")
	return cmd
}
