// Package clubs holds the table of brand clubs known to the merge engine:
// which consent record each club consolidates into, how a missing
// typeOfMember defaults, and which club's typeOfMember wins a merge.
package clubs

import (
	"slices"
	"strings"
)

// Club is one brand membership system.
type Club struct {
	ID           string       `yaml:"id" json:"id"`
	Name         string       `yaml:"name,omitempty" json:"name,omitempty"`
	ConsentKey   string       `yaml:"consent_key,omitempty" json:"consent_key,omitempty"`
	Precedence   int          `yaml:"precedence,omitempty" json:"precedence,omitempty"`
	TypeOfMember TypeOfMember `yaml:"type_of_member,omitempty" json:"type_of_member,omitempty"`
}

// TypeOfMember describes the typeOfMember default of a club.
type TypeOfMember struct {
	// Default replaces a missing value.
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
	// Placeholders are raw codes that are replaced by Default as well.
	Placeholders []string `yaml:"placeholders,omitempty" json:"placeholders,omitempty"`
}

// Ranked reports whether the club takes part in typeOfMember precedence.
func (c Club) Ranked() bool {
	return c.Precedence > 0
}

// Key returns the canonical form of a club id: upper case without spaces,
// so "DE LOPROFIN", "DELOPROFIN" and "de loprofin" name the same club.
func Key(clubID string) string {
	return strings.ToUpper(strings.Join(strings.Fields(clubID), ""))
}

// Registry is an immutable lookup table of clubs.
type Registry struct {
	clubs []Club
	byKey map[string]int
}

// NewRegistry validates clubs and builds a registry.
func NewRegistry(clubs []Club) (*Registry, error) {
	r := &Registry{
		clubs: make([]Club, 0, len(clubs)),
		byKey: make(map[string]int, len(clubs)),
	}
	consentKeys := make(map[string]string)
	for i, c := range clubs {
		if strings.TrimSpace(c.ID) == "" {
			return nil, &ValidationError{Index: i, Message: "club id is required"}
		}
		key := Key(c.ID)
		if _, dup := r.byKey[key]; dup {
			return nil, &ValidationError{Index: i, ClubID: c.ID, Message: "duplicate club id"}
		}
		if c.Precedence < 0 {
			return nil, &ValidationError{Index: i, ClubID: c.ID, Message: "precedence must not be negative"}
		}
		if c.ConsentKey != "" {
			if other, dup := consentKeys[c.ConsentKey]; dup {
				return nil, &ValidationError{Index: i, ClubID: c.ID, Message: "consent key already used by " + other}
			}
			consentKeys[c.ConsentKey] = c.ID
		}
		r.byKey[key] = len(r.clubs)
		r.clubs = append(r.clubs, c)
	}
	return r, nil
}

// Lookup finds a club by id.
func (r *Registry) Lookup(clubID string) (Club, bool) {
	if r == nil {
		return Club{}, false
	}
	i, ok := r.byKey[Key(clubID)]
	if !ok {
		return Club{}, false
	}
	return r.clubs[i], true
}

// ConsentKey returns the club-level consent key of a club.
func (r *Registry) ConsentKey(clubID string) (string, bool) {
	c, ok := r.Lookup(clubID)
	if !ok || c.ConsentKey == "" {
		return "", false
	}
	return c.ConsentKey, true
}

// Ranked returns the ranked clubs, highest precedence first.
func (r *Registry) Ranked() []Club {
	var ranked []Club
	for _, c := range r.All() {
		if c.Ranked() {
			ranked = append(ranked, c)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Club) int {
		return a.Precedence - b.Precedence
	})
	return ranked
}

// All returns every club in table order.
func (r *Registry) All() []Club {
	if r == nil {
		return nil
	}
	return slices.Clone(r.clubs)
}

// Len returns the number of clubs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.clubs)
}
