// Package authority holds the per-field rule table used to resolve the
// technical attributes of two profiles being merged.
package authority

import (
	"path/filepath"

	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// Policy names how a field is resolved when two profiles are merged.
type Policy string

// Field policies.
const (
	// PolicyConcat joins distinct values with "|".
	PolicyConcat Policy = "concat"
	// PolicyClubPrecedence resolves the value through the typeOfMember strategy.
	PolicyClubPrecedence Policy = "club_precedence"
	// PolicyOldestCreated keeps the value of the profile created first.
	PolicyOldestCreated Policy = "oldest_created"
	// PolicyFixed always writes a configured value.
	PolicyFixed Policy = "fixed"
	// PolicyWinner takes the value of the highest priority profile that
	// carries the field. A profile without it never erases the value.
	PolicyWinner Policy = "winner"
	// PolicyDeepMerge merges objects key by key, later values win.
	PolicyDeepMerge Policy = "deep_merge"
)

// String returns the policy name.
func (p Policy) String() string {
	return string(p)
}

// Authority determines how each field is resolved.
type Authority interface {
	// Find returns the rule for a field, nil when the field has none
	Find(field string) *Field

	// List returns every rule
	List() []Field
}

// Field defines the resolution rule of one attribute.
type Field struct {
	Path     string `json:"path" yaml:"path"`                       // attribute name or pattern
	Policy   Policy `json:"policy" yaml:"policy"`                   // how the value is resolved
	Value    string `json:"value,omitempty" yaml:"value,omitempty"` // value written by PolicyFixed
	Priority int    `json:"priority" yaml:"priority"`               // higher wins when patterns overlap
}

// authorities is the standard rule table.
type authorities struct {
	fields []Field
}

// Option customizes the rule table.
type Option func(*authorities)

// WithFixedValue overrides the value written for a fixed field.
func WithFixedValue(field, value string) Option {
	return func(a *authorities) {
		for i := range a.fields {
			if a.fields[i].Path == field && a.fields[i].Policy == PolicyFixed {
				a.fields[i].Value = value
				return
			}
		}
		a.fields = append(a.fields, Field{Path: field, Policy: PolicyFixed, Value: value, Priority: 100})
	}
}

// New creates the standard rule table.
func New(opts ...Option) Authority {
	a := &authorities{fields: defaultFields()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func defaultFields() []Field {
	return []Field{
		{Path: profiles.AttrRegSource, Policy: PolicyConcat, Priority: 100},
		{Path: profiles.AttrCMarketingCode, Policy: PolicyConcat, Priority: 100},
		{Path: profiles.AttrBrand, Policy: PolicyConcat, Priority: 100},
		{Path: profiles.AttrTypeOfMember, Policy: PolicyClubPrecedence, Priority: 100},
		{Path: profiles.AttrClubID, Policy: PolicyOldestCreated, Priority: 100},
		{Path: profiles.AttrDivision, Policy: PolicyFixed, Value: constants.DefaultDivision, Priority: 100},
		{Path: profiles.AttrRegion, Policy: PolicyFixed, Value: constants.DefaultRegion, Priority: 100},
		{Path: profiles.AttrCountryDivision, Policy: PolicyFixed, Value: constants.DefaultCountryDivision, Priority: 100},
		{Path: profiles.AttrLastSystemUpdatedProfile, Policy: PolicyWinner, Priority: 100},
		{Path: profiles.AttrPreferredLanguage, Policy: PolicyWinner, Priority: 100},
		{Path: "*", Policy: PolicyDeepMerge, Priority: 1},
	}
}

// Find returns the rule for a field.
func (a *authorities) Find(field string) *Field {
	return ByField(field, a.fields)
}

// List returns every rule.
func (a *authorities) List() []Field {
	return append([]Field(nil), a.fields...)
}

// Technical returns the fields resolved by a dedicated policy, in table order.
func Technical(a Authority) []Field {
	var out []Field
	for _, f := range a.List() {
		if f.Policy != PolicyDeepMerge {
			out = append(out, f)
		}
	}
	return out
}

// ByField returns the highest priority rule for a given field
func ByField(field string, fields []Field) *Field {
	var bestMatch *Field
	var bestPriority int
	var bestMatchLength int

	for i, f := range fields {
		if MatchesPattern(field, f.Path) {
			// Prioritize by: 1) priority, 2) pattern specificity (length), 3) order
			patternLength := len(f.Path)
			if bestMatch == nil || f.Priority > bestPriority ||
				(f.Priority == bestPriority && patternLength > bestMatchLength) {
				bestMatch = &fields[i]
				bestPriority = f.Priority
				bestMatchLength = patternLength
			}
		}
	}

	return bestMatch
}

// MatchesPattern checks if a field matches a pattern (supports * wildcards)
func MatchesPattern(field, pattern string) bool {
	if field == pattern {
		return true
	}

	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(field) >= len(prefix) && field[:len(prefix)] == prefix
	}

	matched, err := filepath.Match(pattern, field)
	if err != nil {
		return false
	}
	return matched
}
