package reconciler

import (
	"slices"
	"time"

	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// RemapConsents returns a copy of p whose individual consents are folded
// into the club-level consent record of p's club. Granted consents become
// entitlements of that record; all of them are removed. The terms group is
// left untouched. A profile of an unmapped club is returned unchanged.
func RemapConsents(p *profiles.Profile, registry *clubs.Registry, now time.Time) *profiles.Profile {
	out := p.Clone()
	remapConsents(out, registry, now)
	return out
}

// remapConsents is RemapConsents working in place. It returns the number of
// entitlements recorded.
func remapConsents(p *profiles.Profile, registry *clubs.Registry, now time.Time) int {
	key, ok := registry.ConsentKey(p.ClubID())
	if !ok {
		return 0
	}

	consents := p.Preferences.Consents
	record := newClubConsent(mostRecentConsent(consents), now)
	if existing, ok := consents[key]; ok {
		record.Entitlements = append(record.Entitlements, existing.Entitlements...)
	}
	for _, name := range sortedKeys(consents) {
		if name == key {
			continue
		}
		if consents[name].IsConsentGranted && !slices.Contains(record.Entitlements, name) {
			record.Entitlements = append(record.Entitlements, name)
		}
	}

	p.Preferences.Consents = map[string]profiles.Consent{key: record}
	return len(record.Entitlements)
}

// mostRecentConsent returns the consent with the latest lastConsentModified.
// Keys are scanned in sorted order so ties resolve to the first key.
func mostRecentConsent(consents map[string]profiles.Consent) *profiles.Consent {
	var seed *profiles.Consent
	var seedAt time.Time
	for _, name := range sortedKeys(consents) {
		c := consents[name]
		at, ok := c.ModifiedAt()
		if !ok {
			continue
		}
		if seed == nil || at.After(seedAt) {
			seed, seedAt = &c, at
		}
	}
	return seed
}

// newClubConsent builds a granted club-level consent seeded from seed.
func newClubConsent(seed *profiles.Consent, now time.Time) profiles.Consent {
	record := profiles.Consent{
		IsConsentGranted:    true,
		Entitlements:        []string{},
		LastConsentModified: profiles.TimePtr(now),
		ActionTimestamp:     profiles.TimePtr(now),
		DocDate:             profiles.TimePtr(profiles.MustParseTime(constants.DefaultDocDate).Time),
		CustomData:          []any{},
		Tags:                []any{},
	}
	if seed == nil {
		return record
	}
	s := seed.Clone()
	if s.LastConsentModified != nil {
		record.LastConsentModified = s.LastConsentModified
	}
	if s.ActionTimestamp != nil {
		record.ActionTimestamp = s.ActionTimestamp
	}
	if s.DocDate != nil {
		record.DocDate = s.DocDate
	}
	if s.CustomData != nil {
		record.CustomData = s.CustomData
	}
	if s.Tags != nil {
		record.Tags = s.Tags
	}
	return record
}

// mergePreferences merges the preferences of two profiles. curr's record
// wins per key; club-level records keep the union of both entitlement lists.
func mergePreferences(acc, curr profiles.Preferences) profiles.Preferences {
	out := acc.Clone()

	if curr.Terms != nil {
		if out.Terms == nil {
			out.Terms = make(map[string]profiles.Consent, len(curr.Terms))
		}
		for name, c := range curr.Terms {
			out.Terms[name] = c.Clone()
		}
	}

	for name, c := range curr.Consents {
		merged := c.Clone()
		if prev, ok := out.Consents[name]; ok && (prev.Entitlements != nil || merged.Entitlements != nil) {
			merged.Entitlements = unionStrings(prev.Entitlements, merged.Entitlements)
		}
		if out.Consents == nil {
			out.Consents = make(map[string]profiles.Consent, len(curr.Consents))
		}
		out.Consents[name] = merged
	}
	return out
}

// deriveTermsV2 copies TermsOfUse to TermsOfUse_v2 when present.
func deriveTermsV2(p *profiles.Profile) bool {
	terms, ok := p.Preferences.Terms[constants.TermsOfUse]
	if !ok {
		return false
	}
	p.Preferences.Terms[constants.TermsOfUseV2] = terms.Clone()
	return true
}

func unionStrings(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for _, s := range slices.Concat(a, b) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
