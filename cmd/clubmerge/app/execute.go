package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge/internal/cmd/globals"
)

// Execute runs the clubmerge CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "clubmerge",
		Short:   "Merge DACH club profiles into one profile per person",
		Version: a.version,
		Long: `clubmerge consolidates the club profiles of one person, identified by
email, into a single profile. Membership tier, recency and club precedence
decide which values win; consents are remapped to the club of each record
and children, addresses and other lists are reconciled by id.

Every input record is linked to the profile replacing it in a trace file
(or a Neo4j graph) so downstream systems can follow the merge.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	globals.AddFlags(rootCmd)

	// Customize version output to match version subcommand
	rootCmd.SetVersionTemplate("clubmerge {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}

	// An explicit config file replaces the one found at startup
	if flags.Config != "" && flags.Config != a.config.ConfigFile {
		config, err := LoadConfig(flags.Config)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.config = config
		a.clubs = nil
		a.mu.Unlock()
	}

	a.config.UpdateFromFlags(flags.Verbose, flags.Quiet, flags.Output, flags.LogLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
