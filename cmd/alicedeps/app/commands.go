package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/alicedeps/cmd/alicedeps/cmd/normalize"
	"github.com/agentstation/alicedeps/cmd/alicedeps/cmd/patch"
	"github.com/agentstation/alicedeps/cmd/alicedeps/cmd/update"
	"github.com/agentstation/alicedeps/cmd/alicedeps/cmd/version"
	"github.com/agentstation/alicedeps/cmd/alicedeps/cmd/watch"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(normalize.NewCommand(a))
	rootCmd.AddCommand(patch.NewCommand(a))
	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(watch.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
