package reconciler

import (
	"slices"

	"github.com/agentstation/clubmerge/pkg/profiles"
)

// Compare orders two profiles by merge priority. It returns a negative number
// when a ranks below b: Full outranks Lite regardless of timestamps, and
// within a tier the later lastUpdated ranks higher.
func Compare(a, b *profiles.Profile) int {
	if ra, rb := a.Tier.Rank(), b.Tier.Rank(); ra != rb {
		return ra - rb
	}
	return a.LastUpdated.Time.Compare(b.LastUpdated.Time)
}

// Order returns the profiles sorted by ascending priority, winner last.
// Profiles of equal priority keep their input order.
func Order(group []*profiles.Profile) []*profiles.Profile {
	ordered := slices.Clone(group)
	slices.SortStableFunc(ordered, Compare)
	return ordered
}

// PickWinner compares two profiles directly. On equal priority b wins, as it
// would when folded after a.
func PickWinner(a, b *profiles.Profile) (winner, loser *profiles.Profile) {
	if Compare(a, b) > 0 {
		return a, b
	}
	return b, a
}
