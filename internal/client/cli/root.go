package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/stockyard/internal/client/config"
)

// Execute loads configuration for args and runs the command tree.
func Execute(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	root := NewRootCmd(cfg)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCmd builds the console command tree around cfg. Flags write into
// cfg, so cfg must already hold the defaults, JSON and environment layers.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "stockyard",
		Short:         "Back-office console for the stockyard trading API",
		Long:          "stockyard is an interactive console for merchants, movements, reports and users.\nRun without a subcommand to start the REPL.",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, cfg, func(a *App) error {
				a.Run(cmd.Context())
				return nil
			})
		},
	}
	config.BindFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		routeCmd(cfg, "whoami", "Show the cached session"),
		routeCmd(cfg, "logout", "Sign out and forget the cached session"),
		newExportCmd(cfg),
	)
	return root
}

// routeCmd exposes a console route as a one-shot subcommand.
func routeCmd(cfg *config.Config, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, cfg, func(a *App) error {
				return a.Exec(cmd.Context(), name, nil)
			})
		},
	}
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:       "export [csv|xlsx]",
		Short:     "Download a report into the export directory or bucket",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"csv", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			routeArgs := append([]string(nil), args...)
			if from != "" {
				routeArgs = append(routeArgs, "--from", from)
			}
			if to != "" {
				routeArgs = append(routeArgs, "--to", to)
			}
			return withApp(cmd, cfg, func(a *App) error {
				return a.Exec(cmd.Context(), "export", routeArgs)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func withApp(cmd *cobra.Command, cfg *config.Config, fn func(*App) error) error {
	a, err := NewApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
