package reconciler

import (
	"slices"
	"time"

	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// MergeChildren merges two children lists. Two children whose dates (birth
// date, else due date) are less than nine 30-day months apart are the same
// child; the record from the side with the later lastUpdated is kept, A on
// ties. The result is sorted by date with undated children last, and
// isFirstBaby marks the first entry.
func MergeChildren(a, b []profiles.Item, updatedA, updatedB time.Time) []profiles.Item {
	merged, _ := mergeChildren(a, b, updatedA, updatedB)
	return merged
}

// mergeChildren is MergeChildren that also reports the number of collisions.
func mergeChildren(a, b []profiles.Item, updatedA, updatedB time.Time) ([]profiles.Item, int) {
	if a == nil && b == nil {
		return nil, 0
	}

	type entry struct {
		item  profiles.Item
		fromA bool
	}
	merged := make([]entry, 0, len(a)+len(b))
	for _, child := range a {
		merged = append(merged, entry{item: child.Clone(), fromA: true})
	}

	preferB := updatedA.Before(updatedB)
	collisions := 0
	for _, child := range b {
		keepB := true
		kept := merged[:0]
		for _, e := range merged {
			if e.fromA && sameChild(e.item, child) {
				collisions++
				if preferB {
					continue
				}
				keepB = false
			}
			kept = append(kept, e)
		}
		merged = kept
		if keepB {
			merged = append(merged, entry{item: child.Clone()})
		}
	}

	out := make([]profiles.Item, 0, len(merged))
	for _, e := range merged {
		out = append(out, e.item)
	}
	SortChildren(out)
	return out, collisions
}

// sameChild reports whether two children fall inside the collision window.
func sameChild(x, y profiles.Item) bool {
	dx, okx := x.ChildDate()
	dy, oky := y.ChildDate()
	if !okx || !oky {
		return false
	}
	diff := dx.Sub(dy)
	if diff < 0 {
		diff = -diff
	}
	return diff < constants.ChildCollisionWindow
}

// SortChildren sorts children by date, undated last, and sets isFirstBaby.
func SortChildren(children []profiles.Item) {
	slices.SortStableFunc(children, func(x, y profiles.Item) int {
		dx, okx := x.ChildDate()
		dy, oky := y.ChildDate()
		switch {
		case okx && oky:
			return dx.Compare(dy)
		case okx:
			return -1
		case oky:
			return 1
		default:
			return 0
		}
	})
	for i, child := range children {
		if i == 0 {
			child[profiles.ItemIsFirstBaby] = 1
		} else {
			child[profiles.ItemIsFirstBaby] = 0
		}
	}
}
