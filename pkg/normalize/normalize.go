// Package normalize canonicalizes the raw values club systems write into the
// regSource, cMarketingCode and typeOfMember fields, fixing known typos and
// filling in per-club typeOfMember defaults.
package normalize

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// Canonical values.
const (
	Offline          = "Offline"
	HebnewsMailchimp = "Hebnews Mailchimp"
	Migrated         = "Migrated"
)

// Fields lists the attributes the normalizer rewrites.
var Fields = []string{
	profiles.AttrCMarketingCode,
	profiles.AttrRegSource,
	profiles.AttrTypeOfMember,
}

// typeOfMemberAliases maps legacy healthcare codes to their plain names.
var typeOfMemberAliases = map[string]string{
	"HCCarer":   "Carer",
	"HCPatient": "Patient",
}

// variants maps folded spellings (no spaces) to the canonical value.
var variants = map[string]string{
	"offline":          Offline,
	"offlines":         Offline,
	"hebnewsmailchimp": HebnewsMailchimp,
	"hebnewsmailchinp": HebnewsMailchimp,
}

// Normalizer applies the normalization rules with a given club table.
type Normalizer struct {
	registry *clubs.Registry
}

// New returns a Normalizer backed by registry.
func New(registry *clubs.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Value normalizes one field value of a record from club clubID. present
// tells whether the record carries the field at all. The returned ok is
// false when the normalized field is absent.
func (n *Normalizer) Value(field, value string, present bool, clubID string) (string, bool) {
	if !slices.Contains(Fields, field) {
		return value, present
	}

	if field == profiles.AttrTypeOfMember {
		value, present = n.typeOfMember(value, present, clubID)
	}
	if !present {
		return "", false
	}

	if canonical, ok := variants[fold(value)]; ok {
		return canonical, true
	}
	if value == Migrated {
		return "", false
	}
	return value, true
}

func (n *Normalizer) typeOfMember(value string, present bool, clubID string) (string, bool) {
	if alias, ok := typeOfMemberAliases[value]; ok {
		return alias, true
	}
	club, ok := n.registry.Lookup(clubID)
	if !ok || club.TypeOfMember.Default == "" {
		return value, present
	}
	if !present || slices.Contains(club.TypeOfMember.Placeholders, value) {
		return club.TypeOfMember.Default, true
	}
	return value, present
}

// Attributes normalizes every normalized field of attrs in place.
func (n *Normalizer) Attributes(attrs profiles.Attributes, clubID string) {
	for _, field := range Fields {
		value, present := attrs.String(field)
		value, present = n.Value(field, value, present, clubID)
		attrs.SetOptional(field, value, present)
	}
}

// Value normalizes a field value using the default club table.
func Value(field, value string, present bool, clubID string) (string, bool) {
	return New(clubs.MustDefault()).Value(field, value, present, clubID)
}

// fold builds a Caser per call; Casers are stateful and not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), ""))
}
