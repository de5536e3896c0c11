package merge

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge"
	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/internal/cmd/output"
	"github.com/agentstation/clubmerge/internal/cmd/table"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/logging"
	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// Execute runs the merge pipeline and prints its summary.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags) error {
	logger := app.Logger()
	ctx := logging.WithLogger(cmd.Context(), logger)

	opts, err := app.PipelineOptions(ctx)
	if err != nil {
		return err
	}
	opts = append(opts, flags.Options(cmd)...)

	pipeline, err := clubmerge.New(opts...)
	if err != nil {
		return err
	}

	explain := strings.ToLower(strings.TrimSpace(flags.Explain))
	var explained *reconciler.Result
	if explain != "" {
		pipeline.OnProfileMerged(func(r *reconciler.Result) {
			if r.Identity == explain {
				explained = r
			}
		})
	}
	pipeline.OnMergeFailed(func(identity string, err error) {
		logger.Debug().Err(err).Str("identity", identity).Msg("Identity not merged")
	})

	report, err := pipeline.Run(ctx)
	if err != nil {
		if report != nil {
			logger.Warn().Int("merged", report.Merged).Msg("Run stopped early")
		}
		return err
	}
	logger.Info().Msg(report.Summary())

	format := output.DetectFormat(app.OutputFormat())
	out := cmd.OutOrStdout()
	if err := output.FormatSummary(out, Summary(report), format); err != nil {
		return err
	}

	if explain == "" {
		return nil
	}
	if explained == nil {
		return errors.NewNotFoundError("identity", flags.Explain)
	}
	if format == output.FormatTable || format == output.FormatWide {
		fmt.Fprintf(out, "\nProvenance of %s (merged %d records into %s)\n",
			explained.Identity, len(explained.Originals), explained.Profile.UID)
	}
	return output.FormatProvenance(out, explained.Provenance, flags.Fields, format)
}

// Summary converts a run report into its table summary.
func Summary(r *clubmerge.Report) table.Summary {
	return table.Summary{
		Files:           r.Files,
		Records:         r.Records,
		Rejected:        r.Rejected,
		Identities:      r.Identities,
		Merged:          r.Merged,
		Failed:          r.Failed,
		ChildCollisions: r.ChildCollisions,
		SharedItems:     r.SharedItems,
		OutputFiles:     r.OutputFiles,
	}
}
