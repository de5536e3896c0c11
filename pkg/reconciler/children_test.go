package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/pkg/profiles"
)

func child(dob, name string) profiles.Item {
	return profiles.Item{profiles.ItemDateOfBirth: dob, "firstName": name}
}

func TestMergeChildrenWindow(t *testing.T) {
	base := mustTime(t, "2020-01-01")
	older := mustTime(t, "2021-01-01")
	newer := mustTime(t, "2021-06-01")

	tests := []struct {
		name     string
		offset   time.Duration
		expected int
	}{
		{"same day", 0, 1},
		{"269 days apart", 269 * 24 * time.Hour, 1},
		{"270 days apart", 270 * 24 * time.Hour, 2},
		{"two years apart", 730 * 24 * time.Hour, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := []profiles.Item{child(base.Format(time.DateOnly), "A")}
			b := []profiles.Item{child(base.Add(tt.offset).Format(time.DateOnly), "B")}

			merged := MergeChildren(a, b, older, newer)
			assert.Len(t, merged, tt.expected)
		})
	}
}

func TestMergeChildrenCollisionKeepsLaterSide(t *testing.T) {
	a := []profiles.Item{child("2020-01-01", "A")}
	b := []profiles.Item{{profiles.ItemDueDate: "2020-03-01", "firstName": "B"}}
	early := mustTime(t, "2021-01-01")
	late := mustTime(t, "2021-06-01")

	merged := MergeChildren(a, b, early, late)
	require.Len(t, merged, 1)
	assert.Equal(t, "B", merged[0]["firstName"], "B updated later")

	merged = MergeChildren(a, b, late, early)
	require.Len(t, merged, 1)
	assert.Equal(t, "A", merged[0]["firstName"], "A updated later")

	merged = MergeChildren(a, b, early, early)
	require.Len(t, merged, 1)
	assert.Equal(t, "A", merged[0]["firstName"], "ties keep A")
}

func TestMergeChildrenSortsAndMarksFirstBaby(t *testing.T) {
	a := []profiles.Item{child("2022-05-01", "second"), {"firstName": "undated"}}
	b := []profiles.Item{child("2018-01-01", "first")}
	ts := mustTime(t, "2021-01-01")

	merged := MergeChildren(a, b, ts, ts)
	require.Len(t, merged, 3)
	assert.Equal(t, "first", merged[0]["firstName"])
	assert.Equal(t, "second", merged[1]["firstName"])
	assert.Equal(t, "undated", merged[2]["firstName"])
	assert.Equal(t, 1, merged[0][profiles.ItemIsFirstBaby])
	assert.Equal(t, 0, merged[1][profiles.ItemIsFirstBaby])
	assert.Equal(t, 0, merged[2][profiles.ItemIsFirstBaby])
}

func TestMergeChildrenDoesNotModifyInputs(t *testing.T) {
	a := []profiles.Item{child("2020-01-01", "A")}
	b := []profiles.Item{child("2023-01-01", "B")}
	ts := mustTime(t, "2021-01-01")

	_ = MergeChildren(a, b, ts, ts)
	assert.NotContains(t, a[0], profiles.ItemIsFirstBaby)
	assert.NotContains(t, b[0], profiles.ItemIsFirstBaby)
}

func TestMergeChildrenComparesAgainstAOnly(t *testing.T) {
	// Two B twins close together both survive when A has no matching child.
	a := []profiles.Item{child("2015-01-01", "A")}
	b := []profiles.Item{child("2020-01-01", "B1"), child("2020-01-01", "B2")}
	ts := mustTime(t, "2021-01-01")

	merged, collisions := mergeChildren(a, b, ts, ts)
	assert.Len(t, merged, 3)
	assert.Zero(t, collisions)
}

func TestMergeChildrenNil(t *testing.T) {
	assert.Nil(t, MergeChildren(nil, nil, time.Time{}, time.Time{}))
}
