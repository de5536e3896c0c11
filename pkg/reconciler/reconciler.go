// Package reconciler merges the raw profiles of one person, collected from
// several brand clubs, into one canonical profile. It handles field
// normalization, consent consolidation, list reconciliation and the per-field
// resolution rules while keeping the original records untouched.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/clubmerge/pkg/authority"
	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/logging"
	"github.com/agentstation/clubmerge/pkg/normalize"
	"github.com/agentstation/clubmerge/pkg/profiles"
	"github.com/agentstation/clubmerge/pkg/provenance"
)

// Reconciler merges the records of one identity.
type Reconciler interface {
	// Merge folds a group of records sharing one identity key into a single
	// profile. The records are not modified.
	Merge(ctx context.Context, group []*profiles.Profile) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	strategy    Strategy
	authorities authority.Authority
	clubs       *clubs.Registry
	normalizer  *normalize.Normalizer
	tracking    bool
	now         func() time.Time
	newID       func() string
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	// Create options with defaults
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	// Create reconciler from options
	r := &reconciler{
		strategy:    options.strategy,
		authorities: options.authorities,
		clubs:       options.clubs,
		normalizer:  normalize.New(options.clubs),
		tracking:    options.tracking,
		now:         options.now,
		newID:       options.newID,
	}
	return r, nil
}

// mergeContext holds the per-call state of one merge.
type mergeContext struct {
	logger   *zerolog.Logger
	tracker  provenance.Tracker
	resolver *FieldResolver
	state    *FoldState
	now      time.Time
}

// Merge performs the merge with clean step-by-step flow.
func (r *reconciler) Merge(ctx context.Context, group []*profiles.Profile) (*Result, error) {
	if len(group) == 0 {
		return nil, errors.NewMergeError("", nil, errors.ErrEmptyGroup)
	}
	for i, p := range group {
		if p == nil {
			return nil, errors.NewMergeError("", uidsOf(group), errors.NewValidationError("group", i, "nil profile"))
		}
	}
	identity := group[0].IdentityKey()
	if err := ctx.Err(); err != nil {
		return nil, errors.NewMergeError(identity, uidsOf(group), fmt.Errorf("%w: %w", errors.ErrCanceled, err))
	}

	// Step 1: Initialize context
	mctx := r.initialize(ctx)
	result := NewResult(identity, mctx.now)
	result.Metadata.Strategy = r.strategy.Type()
	result.Originals = group

	// Step 2: Order by priority, winner last
	ordered := Order(group)
	result.Winner = ordered[len(ordered)-1].UID
	mctx.logger.Debug().
		Str("identity", identity).
		Int("records", len(group)).
		Str("winner", result.Winner).
		Msg("Merging profiles")

	// Step 3: Normalize, tag list items and remap consents on copies
	prepared := make([]*profiles.Profile, 0, len(ordered))
	for _, p := range ordered {
		prepared = append(prepared, r.prepare(mctx, p, result))
	}

	// Step 4: Fold left to right, seeded with the lowest priority record
	acc := prepared[0]
	mctx.state = NewFoldState(acc)
	r.trackSeed(mctx, acc)
	for i, curr := range prepared[1:] {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewMergeError(identity, uidsOf(group), fmt.Errorf("%w: %w", errors.ErrCanceled, err))
		}
		acc = r.fold(mctx, acc, curr, i+1)
	}

	// Step 5: Final bookkeeping
	r.finalize(mctx, acc)

	// Step 6: Build result
	stats := mctx.state.Stats()
	stats.Records = len(group)
	result.Metadata.Stats.Add(stats)
	result.Profile = acc
	result.Provenance = mctx.tracker.Map()
	result.Finalize(r.now())

	mctx.logger.Debug().
		Str("identity", identity).
		Str("uid", acc.UID).
		Int("child_collisions", stats.ChildCollisions).
		Int("shared_items", stats.SharedItems).
		Dur("duration", result.Metadata.Duration).
		Msg("Merged profiles")

	return result, nil
}

// initialize sets up the merge context.
func (r *reconciler) initialize(ctx context.Context) *mergeContext {
	tracker := provenance.NewTracker(r.tracking)
	return &mergeContext{
		logger:   logging.FromContext(ctx),
		tracker:  tracker,
		resolver: NewFieldResolver(r.authorities, r.strategy, tracker),
		now:      r.now(),
	}
}

// prepare returns a normalized copy of p with tagged list items and a
// consolidated club consent.
func (r *reconciler) prepare(mctx *mergeContext, p *profiles.Profile, result *Result) *profiles.Profile {
	c := p.Clone()
	clubID := c.ClubID()
	r.normalizer.Attributes(c.Data, clubID)

	source := c.Source()
	for _, list := range c.Lists() {
		for _, it := range *list {
			it.Tag(source)
		}
	}

	if _, ok := r.clubs.Lookup(clubID); !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("record %s: club %q is not mapped, consents left as is", c.UID, clubID))
		mctx.logger.Debug().Str("uid", c.UID).Str("club", clubID).Msg("Unmapped club, consents not remapped")
		return c
	}
	entitlements := remapConsents(c, r.clubs, mctx.now)
	mctx.logger.Trace().
		Str("uid", c.UID).
		Str("club", clubID).
		Int("entitlements", entitlements).
		Msg("Remapped consents")
	return c
}

// trackSeed records the technical fields carried by the seed record.
func (r *reconciler) trackSeed(mctx *mergeContext, seed *profiles.Profile) {
	for _, rule := range authority.Technical(r.authorities) {
		if !seed.Data.Has(rule.Path) {
			continue
		}
		mctx.tracker.Track(provenance.Provenance{
			Source: seed.Source(),
			UID:    seed.UID,
			Field:  rule.Path,
			Value:  seed.Data[rule.Path],
			Policy: rule.Policy.String(),
			Reason: "seed record",
		})
	}
}

// fold merges curr into acc and returns the new accumulator.
func (r *reconciler) fold(mctx *mergeContext, acc, curr *profiles.Profile, step int) *profiles.Profile {
	out := &profiles.Profile{
		UID:         firstNonEmpty(curr.UID, acc.UID),
		Domain:      firstNonEmpty(curr.Domain, acc.Domain),
		Email:       firstNonEmpty(curr.Email, acc.Email),
		Tier:        curr.Tier,
		LastUpdated: curr.LastUpdated,
		Created:     curr.Created,
		Account:     deepMerge(acc.Account, curr.Account),
		Extra:       deepMerge(acc.Extra, curr.Extra),
	}
	if out.Tier == profiles.TierUnknown {
		out.Tier = acc.Tier
	}
	if out.LastUpdated.Time.IsZero() {
		out.LastUpdated = acc.LastUpdated
	}
	if out.Created.Time.IsZero() {
		out.Created = acc.Created
	}

	// Lists
	if curr.Children != nil {
		children, collisions := mergeChildren(acc.Children, curr.Children, acc.LastUpdated.Time, curr.LastUpdated.Time)
		out.Children = children
		mctx.state.stats.ChildCollisions += collisions
	} else {
		out.Children = profiles.CloneItems(acc.Children)
	}
	for _, pair := range []struct{ dst, a, b *[]profiles.Item }{
		{&out.Addresses, &acc.Addresses, &curr.Addresses},
		{&out.Orders, &acc.Orders, &curr.Orders},
		{&out.AbandonedCarts, &acc.AbandonedCarts, &curr.AbandonedCarts},
		{&out.Events, &acc.Events, &curr.Events},
	} {
		if *pair.b == nil {
			*pair.dst = profiles.CloneItems(*pair.a)
			continue
		}
		items, shared := mergeItems(*pair.a, *pair.b)
		*pair.dst = items
		mctx.state.stats.SharedItems += shared
	}

	// Attributes and consents
	out.Data = mctx.resolver.MergeTechnicalFields(acc, curr, mctx.state, step)
	out.Preferences = mergePreferences(acc.Preferences, curr.Preferences)

	mctx.logger.Trace().
		Int("step", step).
		Str("uid", curr.UID).
		Str("club", curr.ClubID()).
		Msg("Folded record")
	return out
}

// finalize derives TermsOfUse_v2, applies the fixed overrides and assigns
// the merged UID.
func (r *reconciler) finalize(mctx *mergeContext, p *profiles.Profile) {
	deriveTermsV2(p)
	SortChildren(p.Children)
	if p.Data == nil {
		p.Data = profiles.Attributes{}
	}
	for _, rule := range authority.Technical(r.authorities) {
		if rule.Policy == authority.PolicyFixed {
			p.Data.Set(rule.Path, rule.Value)
		}
	}
	for _, c := range p.Preferences.Consents {
		mctx.state.stats.Entitlements += len(c.Entitlements)
	}
	p.UID = r.newID()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func uidsOf(group []*profiles.Profile) []string {
	uids := make([]string, 0, len(group))
	for _, p := range group {
		if p != nil {
			uids = append(uids, p.UID)
		}
	}
	return uids
}
