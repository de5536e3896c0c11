package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge/cmd/clubmerge/cmd/clubs"
	"github.com/agentstation/clubmerge/cmd/clubmerge/cmd/duplicates"
	"github.com/agentstation/clubmerge/cmd/clubmerge/cmd/merge"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(duplicates.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(clubs.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("clubmerge %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
