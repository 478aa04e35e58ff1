package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/wallacegibbon/stopgate/internal/app"
	"github.com/wallacegibbon/stopgate/internal/config"
	"github.com/wallacegibbon/stopgate/internal/run"
	"github.com/wallacegibbon/stopgate/internal/state"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	root := newRootCmd(os.Stdin)
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		// Only the user-invoked subcommands may fail; the hook never blocks
		if cmd != root {
			cancel()
			os.Exit(1)
		}
	}
}

func newRootCmd(stdin *os.File) *cobra.Command {
	var dir string
	var debugAPI bool

	root := &cobra.Command{
		Use:   "stopgate-reflect",
		Short: "Extract learnings from the session transcript into a skill file",
		Long: `Reads the conversation from CLAUDE_TRANSCRIPT, asks a model for rules the user
stated, and offers to append the high-confidence ones to the project's learned
preferences skill. Does nothing unless enabled with "stopgate-reflect enable".`,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Hosts may pass arguments or flags of their own
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			run.ReflectHook(cmd.Context(), app.Options{Dir: dir, DebugAPI: debugAPI}, stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dir, "dir", ".", "Project directory")
	root.Flags().BoolVar(&debugAPI, "debug-api", false, "Log raw API requests and responses")

	root.AddCommand(
		newToggleCmd("enable", "Turn on automatic reflection", true),
		newToggleCmd("disable", "Turn off automatic reflection", false),
		newStatusCmd(),
	)
	return root
}

func stateStore(ctx context.Context) (state.Store, error) {
	env, err := config.LoadEnv(ctx, nil)
	if err != nil {
		return state.Store{}, err
	}
	return state.Store{Path: env.StatePath()}, nil
}

func newToggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stateStore(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := store.SetEnabled(enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Automatic reflection %s\n", onOff(enabled))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether automatic reflection is on and its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stateStore(cmd.Context())
			if err != nil {
				return err
			}
			st, err := store.Load()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), store.Path, st)
			return nil
		},
	}
}

func printStatus(w io.Writer, path string, st state.Reflection) {
	fmt.Fprintf(w, "Automatic reflection: %s\n", onOff(st.Enabled))
	fmt.Fprintf(w, "Reflections applied: %d (%d learnings)\n", st.Count, st.TotalApplied())
	if st.LastReflection != "" {
		fmt.Fprintf(w, "Last reflection: %s\n", st.LastReflection)
	}
	fmt.Fprintf(w, "State file: %s\n", path)
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
