// Package duplicates provides the duplicates command implementation.
package duplicates

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge"
	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/internal/cmd/globals"
	"github.com/agentstation/clubmerge/internal/cmd/output"
	"github.com/agentstation/clubmerge/internal/report"
	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/logging"
)

// formatTable prints the report instead of writing a file.
const formatTable = "table"

// Flags holds the duplicates command flags.
type Flags struct {
	*globals.RunFlags

	// Report is csv, xlsx, md or table
	Report string
}

// NewCommand creates the duplicates command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "duplicates [input-dir]",
		GroupID: "core",
		Short:   "Report emails registered in more than one club",
		Args:    cobra.MaximumNArgs(1),
		Long: `Duplicates reads the input directory like merge does and reports every
email present in at least two clubs: per club whether the email is present,
its typeOfMember and a summary of its children.

The report is written to common_emails.<csv|xlsx|md> in the output directory,
or printed with --report table.`,
		Example: `  clubmerge duplicates ./users                      # common_emails.csv
  clubmerge duplicates ./users --report xlsx -d out # out/common_emails.xlsx
  clubmerge duplicates ./users --report table -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.InputDir = args[0]
			}
			return Execute(cmd, app, flags)
		},
	}

	flags.RunFlags = globals.AddRunFlags(cmd)
	cmd.Flags().StringVar(&flags.Report, "report", "csv",
		"Report format: csv, xlsx, md, table")

	return cmd
}

// Execute collates the input and writes the duplicate-email report.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags) error {
	logger := app.Logger()
	ctx := logging.WithLogger(cmd.Context(), logger)

	opts, err := app.PipelineOptions(ctx)
	if err != nil {
		return err
	}
	collated, err := clubmerge.Collate(ctx, append(opts, flags.Options(cmd)...)...)
	if err != nil {
		return err
	}
	registry, err := app.Clubs()
	if err != nil {
		return err
	}

	d := report.Build(collated.Groups, registry)
	logger.Info().
		Int("identities", len(collated.Groups)).
		Int("duplicates", len(d.Entries)).
		Msg("Built duplicate report")

	if strings.EqualFold(flags.Report, formatTable) {
		return output.FormatDuplicates(cmd.OutOrStdout(), d, output.DetectFormat(app.OutputFormat()))
	}

	format, err := report.ParseFormat(flags.Report)
	if err != nil {
		return err
	}
	dir := flags.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	path := report.FileName(dir, format)
	if err := write(path, format, d); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d emails present in more than one club to %s\n", len(d.Entries), path)
	return nil
}

// write writes the report file in format.
func write(path string, format report.Format, d *report.Duplicates) (err error) {
	if format == report.FormatXLSX {
		return report.WriteXLSX(path, d)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // output directory is operator-provided
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	switch format {
	case report.FormatMarkdown:
		err = report.WriteMarkdown(w, d)
	default:
		err = report.WriteCSV(w, d)
	}
	if err != nil {
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("write", path, w.Flush())
}
