package reconciler

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/agentstation/clubmerge/pkg/authority"
	"github.com/agentstation/clubmerge/pkg/normalize"
	"github.com/agentstation/clubmerge/pkg/profiles"
	"github.com/agentstation/clubmerge/pkg/provenance"
)

// concatSeparator joins the distinct tokens of a concatenated field.
const concatSeparator = "|"

// FieldResolver merges the data attributes of two profiles using the rule
// table of an Authority.
type FieldResolver struct {
	authority authority.Authority
	strategy  Strategy
	tracker   provenance.Tracker
}

// NewFieldResolver creates a resolver. A nil tracker disables provenance.
func NewFieldResolver(auth authority.Authority, strategy Strategy, tracker provenance.Tracker) *FieldResolver {
	if tracker == nil {
		tracker = provenance.NewTracker(false)
	}
	return &FieldResolver{authority: auth, strategy: strategy, tracker: tracker}
}

// MergeTechnicalFields returns the data attributes of acc merged with those
// of curr. Fields with a dedicated rule are resolved by that rule; every
// other attribute is deep merged with curr winning. state is updated with
// curr's contribution. Neither profile is modified.
func (r *FieldResolver) MergeTechnicalFields(acc, curr *profiles.Profile, state *FoldState, step int) profiles.Attributes {
	state.observe(curr)

	out := profiles.Attributes(profiles.CloneMap(acc.Data))
	if out == nil {
		out = profiles.Attributes{}
	}

	for _, key := range sortedKeys(curr.Data) {
		if rule := r.authority.Find(key); rule != nil && rule.Policy != authority.PolicyDeepMerge {
			continue
		}
		out[key] = deepMergeValue(out[key], curr.Data[key])
	}

	for _, rule := range authority.Technical(r.authority) {
		r.resolve(rule, out, acc, curr, state, step)
	}
	return out
}

func (r *FieldResolver) resolve(rule authority.Field, out profiles.Attributes, acc, curr *profiles.Profile, state *FoldState, step int) {
	field := rule.Path
	prev, prevOK := out[field]
	track := func(source, uid string, value any, reason string) {
		p := provenance.Provenance{
			Source: source,
			UID:    uid,
			Field:  field,
			Value:  value,
			Policy: rule.Policy.String(),
			Reason: reason,
			Step:   step,
		}
		if prevOK {
			p.PreviousValue = prev
		}
		r.tracker.Track(p)
	}

	switch rule.Policy {
	case authority.PolicyConcat:
		a, aok := acc.Data.String(field)
		c, cok := curr.Data.String(field)
		value, ok := concatField(a, aok, c, cok)
		out.SetOptional(field, value, ok)
		if ok && cok && value != a {
			track(curr.Source(), curr.UID, value, fmt.Sprintf("appended %q", c))
		}

	case authority.PolicyClubPrecedence:
		if r.strategy != nil {
			if winner, reason, ok := r.strategy.Resolve(state.Candidates()); ok {
				out.Set(field, winner.Value)
				if !prevOK || !equalString(prev, winner.Value) {
					track(winner.Source, winner.UID, winner.Value, reason)
				}
				return
			}
		}
		if curr.Data.Has(field) {
			out[field] = profiles.CloneValue(curr.Data[field])
			track(curr.Source(), curr.UID, out[field], "no ranked value, taken from the later record")
		}

	case authority.PolicyOldestCreated:
		if !curr.Data.Has(field) {
			return
		}
		owner := state.clubOwner
		if owner.set && acc.Data.Has(field) && createdBefore(owner, curr) {
			return
		}
		out[field] = profiles.CloneValue(curr.Data[field])
		state.clubOwner = ownerOf(curr)
		track(curr.Source(), curr.UID, out[field], "record created first")

	case authority.PolicyWinner:
		// The fold runs in ascending priority, so curr never ranks below acc.
		if !curr.Data.Has(field) {
			return
		}
		out[field] = profiles.CloneValue(curr.Data[field])
		if !prevOK || !reflect.DeepEqual(prev, out[field]) {
			track(curr.Source(), curr.UID, out[field], "higher priority record")
		}

	case authority.PolicyFixed:
		out.Set(field, rule.Value)
		if !prevOK || !equalString(prev, rule.Value) {
			track("", "", rule.Value, "fixed value")
		}
	}
}

// createdBefore reports whether the owner was created strictly before curr.
// A zero created time counts as unknown and never wins.
func createdBefore(o owner, curr *profiles.Profile) bool {
	if o.created.IsZero() {
		return false
	}
	if curr.Created.Time.IsZero() {
		return true
	}
	return o.created.Before(curr.Created.Time)
}

func equalString(v any, s string) bool {
	x, ok := v.(string)
	return ok && x == s
}

// concatField joins the tokens of curr into acc. A missing curr keeps acc,
// a missing acc takes curr, and an acc of exactly "Migrated" is frozen.
func concatField(acc string, accOK bool, curr string, currOK bool) (string, bool) {
	switch {
	case !currOK:
		return acc, accOK
	case !accOK:
		return curr, true
	case acc == normalize.Migrated:
		return acc, true
	}
	return concatTokens(acc, curr), true
}

// concatTokens appends the tokens of curr not already present in acc.
func concatTokens(acc, curr string) string {
	tokens := splitTokens(acc)
	for _, t := range splitTokens(curr) {
		if !slices.Contains(tokens, t) {
			tokens = append(tokens, t)
		}
	}
	return strings.Join(tokens, concatSeparator)
}

func splitTokens(s string) []string {
	var tokens []string
	for _, t := range strings.Split(s, concatSeparator) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// deepMerge merges src into dst key by key. Nested maps merge recursively;
// any other value of src, null included, replaces dst's.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil && src == nil {
		return nil
	}
	out := profiles.CloneMap(dst)
	if out == nil {
		out = make(map[string]any, len(src))
	}
	for k, v := range src {
		out[k] = deepMergeValue(out[k], v)
	}
	return out
}

func deepMergeValue(dst, src any) any {
	dm, dok := dst.(map[string]any)
	sm, sok := src.(map[string]any)
	if dok && sok {
		return deepMerge(dm, sm)
	}
	return profiles.CloneValue(src)
}
