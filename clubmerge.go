// Package clubmerge merges the club profiles of one person into a single
// consolidated profile and writes the result together with a trace that
// links every input record to the profile replacing it.
package clubmerge

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/clubmerge/internal/collate"
	"github.com/agentstation/clubmerge/internal/metrics"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// Pipeline collates an input directory and merges every identity in it.
type Pipeline interface {
	// Run reads the input directory, merges every identity and writes the
	// merged batches, the trace and the metrics textfile.
	Run(ctx context.Context) (*Report, error)

	// OnProfileMerged registers a callback for every merged identity
	OnProfileMerged(ProfileMergedHook)

	// OnMergeFailed registers a callback for every identity that could not be merged
	OnMergeFailed(MergeFailedHook)
}

// pipeline is the internal implementation of the Pipeline interface
type pipeline struct {
	config     *config
	reconciler reconciler.Reconciler
	metrics    *metrics.Metrics

	// Event hooks
	hooks *hooks
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) (Pipeline, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	rec := cfg.reconciler
	if rec == nil {
		rec, err = reconciler.New(cfg.reconcilerOptions...)
		if err != nil {
			return nil, fmt.Errorf("creating reconciler: %w", err)
		}
	}

	return &pipeline{
		config:     cfg,
		reconciler: rec,
		metrics:    metrics.New(),
		hooks:      newHooks(),
	}, nil
}

// OnProfileMerged registers a callback for every merged identity.
func (p *pipeline) OnProfileMerged(fn ProfileMergedHook) {
	p.hooks.OnProfileMerged(fn)
}

// OnMergeFailed registers a callback for every identity that could not be merged.
func (p *pipeline) OnMergeFailed(fn MergeFailedHook) {
	p.hooks.OnMergeFailed(fn)
}

// Report summarizes one run.
type Report struct {
	Files           int
	Records         int
	Rejected        int
	Identities      int
	Merged          int
	Failed          int
	ChildCollisions int
	SharedItems     int
	OutputFiles     []string
	Duration        time.Duration
}

// Summary returns a one line description of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d records in %d files: %d identities merged, %d failed, %d rejected records",
		r.Records, r.Files, r.Merged, r.Failed, r.Rejected)
}

// Collate reads the input directory of a pipeline configured with opts
// without merging anything.
func Collate(ctx context.Context, opts ...Option) (*collate.Result, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.inputDir == "" {
		return nil, errors.NewValidationError("input_dir", "", "is required")
	}
	return collate.Dir(ctx, cfg.inputDir)
}
