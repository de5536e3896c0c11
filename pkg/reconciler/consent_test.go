package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

func TestRemapConsentsLoprofin(t *testing.T) {
	postal := granted("2020-06-01T00:00:00Z")
	postal.Tags = []any{"newsletter"}

	p := record(t, "u-1", "DE LOPROFIN", profiles.TierFull, "2021-01-01", "", nil)
	p.Preferences = profiles.Preferences{
		Terms: map[string]profiles.Consent{"TermsOfUse": granted("2019-01-01T00:00:00Z")},
		Consents: map[string]profiles.Consent{
			"optinEmail":  granted("2020-01-01T00:00:00Z"),
			"optinPostal": postal,
			"optinPhone":  {IsConsentGranted: false},
		},
	}

	got := RemapConsents(p, clubs.MustDefault(), fixedNow)

	require.Len(t, got.Preferences.Consents, 1)
	club, ok := got.Preferences.Consents["optinLoprofin"]
	require.True(t, ok)
	assert.True(t, club.IsConsentGranted)
	assert.Equal(t, []string{"optinEmail", "optinPostal"}, club.Entitlements)
	assert.Equal(t, mustTime(t, "2020-06-01T00:00:00Z"), club.LastConsentModified.Time, "seeded from the most recent consent")
	assert.Equal(t, []any{"newsletter"}, club.Tags)
	assert.Equal(t, fixedNow, club.ActionTimestamp.Time)
	assert.Equal(t, mustTime(t, "2020-09-21T00:00:00Z"), club.DocDate.Time)
	assert.Equal(t, []any{}, club.CustomData)
	assert.Contains(t, got.Preferences.Terms, "TermsOfUse", "terms untouched")

	assert.Len(t, p.Preferences.Consents, 3, "input not modified")
}

func TestRemapConsentsWithoutConsents(t *testing.T) {
	p := record(t, "u-1", "DE APTA", profiles.TierLite, "2021-01-01", "", nil)

	got := RemapConsents(p, clubs.MustDefault(), fixedNow)

	club := got.Preferences.Consents["optinAptamil"]
	assert.True(t, club.IsConsentGranted)
	assert.Empty(t, club.Entitlements)
	assert.Equal(t, fixedNow, club.LastConsentModified.Time)
	assert.Equal(t, fixedNow, club.ActionTimestamp.Time)
}

func TestRemapConsentsUnmappedClub(t *testing.T) {
	p := record(t, "u-1", "AT SOMETHING", profiles.TierFull, "2021-01-01", "", nil)
	p.Preferences.Consents = map[string]profiles.Consent{"optinEmail": granted("")}

	got := RemapConsents(p, clubs.MustDefault(), fixedNow)

	assert.Equal(t, p.Preferences, got.Preferences)
}

func TestMergePreferences(t *testing.T) {
	acc := profiles.Preferences{
		Terms:    map[string]profiles.Consent{"TermsOfUse": granted("2019-01-01")},
		Consents: map[string]profiles.Consent{"optinAptamil": {IsConsentGranted: true, Entitlements: []string{"optinEmail"}}},
	}
	curr := profiles.Preferences{
		Terms: map[string]profiles.Consent{"TermsOfUse": granted("2021-01-01")},
		Consents: map[string]profiles.Consent{
			"optinAptamil":  {IsConsentGranted: true, Entitlements: []string{"optinPostal", "optinEmail"}},
			"optinNutricia": {IsConsentGranted: true, Entitlements: []string{}},
		},
	}

	got := mergePreferences(acc, curr)

	assert.Equal(t, mustTime(t, "2021-01-01"), got.Terms["TermsOfUse"].LastConsentModified.Time)
	assert.Equal(t, []string{"optinEmail", "optinPostal"}, got.Consents["optinAptamil"].Entitlements)
	assert.Contains(t, got.Consents, "optinNutricia")
	assert.Equal(t, []string{"optinEmail"}, acc.Consents["optinAptamil"].Entitlements, "input not modified")
}

func TestDeriveTermsV2(t *testing.T) {
	p := &profiles.Profile{}
	assert.False(t, deriveTermsV2(p))

	p.Preferences.Terms = map[string]profiles.Consent{"TermsOfUse": granted("2021-01-01")}
	require.True(t, deriveTermsV2(p))
	assert.Equal(t, p.Preferences.Terms["TermsOfUse"], p.Preferences.Terms["TermsOfUse_v2"])
}
