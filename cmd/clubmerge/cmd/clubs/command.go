// Package clubs provides the clubs command implementation.
package clubs

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/internal/cmd/output"
)

// NewCommand creates the clubs command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "clubs",
		GroupID: "management",
		Short:   "List the club table used for merging",
		Args:    cobra.NoArgs,
		Long: `Clubs prints the club table: each club's consent key, its precedence
when choosing typeOfMember and the typeOfMember defaults applied during
normalization.

The embedded table is used unless clubs-file is configured.`,
		Example: `  clubmerge clubs             # Table of clubs
  clubmerge clubs -o yaml     # Same format as a clubs-file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := app.Clubs()
			if err != nil {
				return err
			}
			return output.FormatClubs(cmd.OutOrStdout(), registry.All(), output.DetectFormat(app.OutputFormat()))
		},
	}
}
