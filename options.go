package clubmerge

import (
	"github.com/agentstation/clubmerge/internal/sink"
	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// config holds the configuration of a Pipeline
type config struct {
	inputDir  string
	outputDir string
	batchSize int
	workers   int

	reconcilerOptions []reconciler.Option
	// reconciler replaces the default engine; reconcilerOptions are then unused
	reconciler reconciler.Reconciler

	// nil writes the CSV trace into the output directory
	traceSink   sink.TraceSink
	metricsPath string
}

func defaultConfig() *config {
	return &config{
		outputDir: ".",
		batchSize: constants.MaxProfilesPerFile,
		workers:   constants.DefaultWorkers,
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Option is a function that configures a Pipeline
type Option func(*config) error

// WithInputDir sets the directory holding the *.json record files.
func WithInputDir(dir string) Option {
	return func(c *config) error {
		c.inputDir = dir
		return nil
	}
}

// WithOutputDir sets the directory the merged batches and the CSV trace are written to.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("output_dir", dir, "cannot be empty")
		}
		c.outputDir = dir
		return nil
	}
}

// WithBatchSize sets the maximum number of merged profiles per output file.
func WithBatchSize(size int) Option {
	return func(c *config) error {
		if size < 1 {
			return errors.NewValidationError("batch_size", size, "must be positive")
		}
		c.batchSize = size
		return nil
	}
}

// WithWorkers sets how many identities are merged concurrently.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("workers", n, "must be positive")
		}
		c.workers = n
		return nil
	}
}

// WithReconcilerOptions passes options to the reconciler merging each identity.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconcilerOptions = append(c.reconcilerOptions, opts...)
		return nil
	}
}

// WithReconciler merges each identity with r instead of an engine built from
// the reconciler options.
func WithReconciler(r reconciler.Reconciler) Option {
	return func(c *config) error {
		if r == nil {
			return errors.NewValidationError("reconciler", nil, "cannot be nil")
		}
		c.reconciler = r
		return nil
	}
}

// WithTraceSink replaces the CSV trace with s. Run closes the sink.
func WithTraceSink(s sink.TraceSink) Option {
	return func(c *config) error {
		if s == nil {
			return errors.NewValidationError("trace_sink", nil, "cannot be nil")
		}
		c.traceSink = s
		return nil
	}
}

// WithMetricsTextfile writes the run metrics in Prometheus text format to path.
func WithMetricsTextfile(path string) Option {
	return func(c *config) error {
		c.metricsPath = path
		return nil
	}
}
