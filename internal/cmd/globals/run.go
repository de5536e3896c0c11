package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/clubmerge"
)

// RunFlags holds flags for commands that read the input directory.
type RunFlags struct {
	InputDir  string
	OutputDir string
	BatchSize int
	Workers   int
}

// AddRunFlags adds input and output flags to a command.
func AddRunFlags(cmd *cobra.Command) *RunFlags {
	flags := &RunFlags{}

	cmd.Flags().StringVarP(&flags.InputDir, "input-dir", "i", "",
		"Directory holding the *.json record files")
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "d", "",
		"Directory the results are written to")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", 0,
		"Maximum merged profiles per output file")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0,
		"Identities merged concurrently")

	return flags
}

// Options returns the pipeline options for the flags that were set. They
// are meant to be appended after the configured options so flags win.
func (f *RunFlags) Options(cmd *cobra.Command) []clubmerge.Option {
	var opts []clubmerge.Option
	if f.InputDir != "" {
		opts = append(opts, clubmerge.WithInputDir(f.InputDir))
	}
	if cmd.Flags().Changed("output-dir") {
		opts = append(opts, clubmerge.WithOutputDir(f.OutputDir))
	}
	if cmd.Flags().Changed("batch-size") {
		opts = append(opts, clubmerge.WithBatchSize(f.BatchSize))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, clubmerge.WithWorkers(f.Workers))
	}
	return opts
}
