package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustTime(t testing.TB, s string) time.Time {
	t.Helper()
	ts, err := profiles.ParseTime(s)
	require.NoError(t, err)
	return ts.Time
}

// record builds a profile of club clubID with the given attributes.
func record(t testing.TB, uid, clubID string, tier profiles.Tier, updated, created string, data profiles.Attributes) *profiles.Profile {
	t.Helper()
	if data == nil {
		data = profiles.Attributes{}
	}
	data[profiles.AttrClubID] = clubID
	p := &profiles.Profile{
		UID:   uid,
		Email: "Jane.Doe@example.com",
		Tier:  tier,
		Data:  data,
	}
	p.LastUpdated = profiles.MustParseTime(updated)
	if created != "" {
		p.Created = profiles.MustParseTime(created)
	}
	return p
}

func newTestReconciler(t testing.TB, opts ...Option) Reconciler {
	t.Helper()
	defaults := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "merged-uid" }),
	}
	r, err := New(append(defaults, opts...)...)
	require.NoError(t, err)
	return r
}

func granted(modified string) profiles.Consent {
	c := profiles.Consent{IsConsentGranted: true}
	if modified != "" {
		c.LastConsentModified = profiles.TimePtr(profiles.MustParseTime(modified).Time)
	}
	return c
}

func clubsDefault(t testing.TB) *clubs.Registry {
	t.Helper()
	r, err := clubs.Default()
	require.NoError(t, err)
	return r
}
