// Package merge provides the merge command implementation.
package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/internal/cmd/globals"
)

// Flags holds the merge command flags.
type Flags struct {
	*globals.RunFlags

	// Explain prints the field provenance of one identity
	Explain string
	// Fields limits the explained fields to glob patterns
	Fields []string
}

// NewCommand creates the merge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge [input-dir]",
		GroupID: "core",
		Short:   "Merge the club profiles of every identity",
		Args:    cobra.MaximumNArgs(1),
		Long: `Merge reads every *.json file of the input directory, groups the records
by lower-cased email and merges each group into one profile.

The command writes:
• user-DE-merged_<n>.json - the merged profiles, --batch-size per file
• oldData_merged_profile.csv - one row per record linking it to its merged profile
  (or MERGED_INTO edges in Neo4j with trace-sink: neo4j)

Records without UID, email or clubId are rejected and reported; a failed
identity is logged and skipped.`,
		Example: `  clubmerge merge ./users                         # Merge into the current directory
  clubmerge merge ./users -d ./out --workers 16    # Write to ./out with 16 workers
  clubmerge merge ./users --explain jane@example.com --fields 'typeOf*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.InputDir = args[0]
			}
			return Execute(cmd, app, flags)
		},
	}

	flags.RunFlags = globals.AddRunFlags(cmd)
	cmd.Flags().StringVar(&flags.Explain, "explain", "",
		"Print which club supplied each field of the merged profile of this email")
	cmd.Flags().StringSliceVar(&flags.Fields, "fields", nil,
		"Limit --explain to fields matching these patterns")

	return cmd
}
