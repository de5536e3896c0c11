package clubmerge

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/stream"

	"github.com/agentstation/clubmerge/internal/collate"
	"github.com/agentstation/clubmerge/internal/sink"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/logging"
	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// run holds the outputs of one Run. Stream callbacks run one at a time in
// submission order, so they touch it without locking.
type run struct {
	report *Report
	batch  *sink.BatchWriter
	trace  sink.TraceSink
	err    error
}

// Run reads the input directory, merges every identity and writes the results.
func (p *pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	ctx = logging.WithOperation(ctx, "run")
	logger := logging.Ctx(ctx)

	if p.config.inputDir == "" {
		return nil, errors.NewValidationError("input_dir", "", "is required")
	}

	// Step 1: Collate the input
	collated, err := collate.Dir(ctx, p.config.inputDir)
	if err != nil {
		return nil, err
	}
	p.metrics.Rejected(len(collated.Rejected))
	logger.Info().
		Int("files", collated.Files).
		Int("records", collated.Records).
		Int("rejected", len(collated.Rejected)).
		Int("identities", len(collated.Groups)).
		Msg("Collated input")

	// Step 2: Open the outputs
	r, err := p.open()
	if err != nil {
		return nil, err
	}
	r.report.Files = collated.Files
	r.report.Records = collated.Records
	r.report.Rejected = len(collated.Rejected)
	r.report.Identities = len(collated.Groups)

	// Step 3: Merge concurrently, write in input order
	p.merge(ctx, r, collated.Groups)

	// Step 4: Flush and close
	if err := r.batch.Flush(); err != nil && r.err == nil {
		r.err = err
	}
	if err := r.trace.Close(ctx); err != nil && r.err == nil {
		r.err = errors.WrapSink("trace", "close", err)
	}
	r.report.OutputFiles = r.batch.Files()
	r.report.Duration = time.Since(start)

	if p.config.metricsPath != "" {
		if err := p.metrics.WriteTextfile(p.config.metricsPath, time.Now()); err != nil && r.err == nil {
			r.err = err
		}
	}

	if r.err != nil {
		return r.report, r.err
	}
	if err := ctx.Err(); err != nil {
		return r.report, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	logger.Info().
		Int("merged", r.report.Merged).
		Int("failed", r.report.Failed).
		Int("files", len(r.report.OutputFiles)).
		Dur("duration", r.report.Duration).
		Msg("Run complete")

	return r.report, nil
}

// open creates the batch writer and the trace sink.
func (p *pipeline) open() (*run, error) {
	batch, err := sink.NewBatchWriter(p.config.outputDir, p.config.batchSize)
	if err != nil {
		return nil, err
	}

	trace := p.config.traceSink
	if trace == nil {
		csv, err := sink.NewCSVTraceSink(p.config.outputDir)
		if err != nil {
			return nil, err
		}
		trace = csv
	}

	return &run{
		report: &Report{},
		batch:  batch,
		trace:  trace,
	}, nil
}

// merge merges the groups on a bounded stream. The first write error stops
// further writes but lets the in-flight merges drain.
func (p *pipeline) merge(ctx context.Context, r *run, groups []collate.Group) {
	s := stream.New().WithMaxGoroutines(p.config.workers)

	for _, group := range groups {
		if ctx.Err() != nil {
			break
		}
		gctx := logging.WithFields(logging.WithIdentity(ctx, group.Identity), map[string]any{
			"records": len(group.Profiles),
		})
		s.Go(func() stream.Callback {
			start := time.Now()
			result, err := p.mergeGroup(gctx, group)
			elapsed := time.Since(start)

			return func() {
				if r.err != nil {
					return
				}
				if errors.IsCanceled(err) {
					return
				}
				if err != nil {
					p.fail(gctx, r, group, err)
					return
				}
				if err := p.write(ctx, r, result); err != nil {
					r.err = err
					logging.Ctx(gctx).Error().Err(err).Msg("Write failed, stopping")
					return
				}
				stats := result.Metadata.Stats
				p.metrics.Merged(stats.Records, stats.ChildCollisions, stats.SharedItems, elapsed)
				r.report.Merged++
				r.report.ChildCollisions += stats.ChildCollisions
				r.report.SharedItems += stats.SharedItems
				p.hooks.merged(result)
			}
		})
	}

	s.Wait()
}

// mergeGroup runs the reconciler on one group. A panic fails that identity
// only.
func (p *pipeline) mergeGroup(ctx context.Context, group collate.Group) (result *reconciler.Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			uids := make([]string, 0, len(group.Profiles))
			for _, prof := range group.Profiles {
				uids = append(uids, prof.UID)
			}
			result = nil
			err = errors.NewMergeError(group.Identity, uids, fmt.Errorf("panic during merge: %v", v))
		}
	}()
	return p.reconciler.Merge(ctx, group.Profiles)
}

// write hands one merged identity to the batch writer and the trace sink.
func (p *pipeline) write(ctx context.Context, r *run, result *reconciler.Result) error {
	if err := r.batch.Add(result.Profile); err != nil {
		return err
	}
	if err := r.trace.Write(ctx, sink.TraceRows(result)); err != nil {
		return errors.WrapSink("trace", "write", err)
	}
	return nil
}

// fail records an identity that could not be merged. The run continues.
func (p *pipeline) fail(ctx context.Context, r *run, group collate.Group, err error) {
	p.metrics.Failed(len(group.Profiles))
	r.report.Failed++
	logging.Ctx(logging.WithError(ctx, err)).Warn().Msg("Merge failed, skipping identity")
	p.hooks.failed(group.Identity, err)
}
