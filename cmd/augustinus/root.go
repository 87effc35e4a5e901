package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"augustinus/internal/config"
	"augustinus/internal/paths"
	"augustinus/internal/version"
)

// rootFlags holds the flags shared by the dashboard and its subcommands.
type rootFlags struct {
	configPath string
	shell      string
	agent      string
	stickyLock bool
	devLog     bool
}

// newRootCmd creates the root augustinus command with all subcommands attached.
func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "augustinus",
		Short: "Terminal dashboard with embedded shell and agent panes",
		Long: "augustinus splits the terminal into four panes: a motivation pane, a general\n" +
			"shell, an AI agent terminal and a stats pane. Move between panes with\n" +
			"h/j/k/l, press enter to type into a terminal and esc to leave it.",
		Version:       fmt.Sprintf("augustinus %s", version.String()),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, &flags)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/augustinus/config.toml)")
	cmd.Flags().StringVar(&flags.shell, "shell", "", "shell for the general pane")
	cmd.Flags().StringVar(&flags.agent, "agent", "", "agent command for the agents pane, e.g. \"claude --resume\"")
	cmd.Flags().BoolVar(&flags.stickyLock, "sticky-lock", false, "keep a terminal locked when focus leaves its pane")
	cmd.Flags().BoolVar(&flags.devLog, "dev-log", false, "write human-readable development logs")

	cmd.AddCommand(
		newConfigCmd(&flags),
		newEventsCmd(),
	)

	return cmd
}

// resolveConfigPath returns --config, else AUGUSTINUS_CONFIG, else the XDG
// default.
func (f *rootFlags) resolveConfigPath(p *paths.Paths) string {
	if f.configPath != "" {
		return f.configPath
	}
	return p.ConfigFile
}

// overrides returns a function applying the environment and then the flags
// the user set explicitly on cmd.
func (f *rootFlags) overrides(cmd *cobra.Command) func(config.Config) config.Config {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	return func(c config.Config) config.Config {
		c = c.ApplyEnv()
		if changed("shell") && f.shell != "" {
			c.Shell = f.shell
		}
		if changed("agent") {
			if fields := strings.Fields(f.agent); len(fields) > 0 {
				c.AgentsCmd = fields
			}
		}
		if changed("sticky-lock") {
			c.StickyLock = f.stickyLock
		}
		return c
	}
}
