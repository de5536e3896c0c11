package reconciler

import (
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// MergeItems merges two id-keyed lists (addresses, orders, carts, events).
// Items sharing an id are merged field by field with B winning, which also
// moves the source tag to B's. Other items keep their order: A's first,
// then B's new ones.
func MergeItems(a, b []profiles.Item) []profiles.Item {
	merged, _ := mergeItems(a, b)
	return merged
}

// mergeItems is MergeItems that also reports how many ids were shared.
func mergeItems(a, b []profiles.Item) ([]profiles.Item, int) {
	if a == nil && b == nil {
		return nil, 0
	}

	out := profiles.CloneItems(a)
	if out == nil {
		out = make([]profiles.Item, 0, len(b))
	}
	index := make(map[string]int, len(out))
	for i, it := range out {
		if id, ok := it.ID(); ok {
			if _, seen := index[id]; !seen {
				index[id] = i
			}
		}
	}

	shared := 0
	for _, it := range b {
		id, ok := it.ID()
		if pos, seen := index[id]; ok && seen {
			shared++
			target := out[pos]
			for k, v := range it {
				target[k] = profiles.CloneValue(v)
			}
			continue
		}
		out = append(out, it.Clone())
		if ok {
			index[id] = len(out) - 1
		}
	}
	return out, shared
}
