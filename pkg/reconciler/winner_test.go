package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/clubmerge/pkg/profiles"
)

func TestPickWinner(t *testing.T) {
	fullOld := record(t, "full-old", "DE APTA", profiles.TierFull, "2020-01-01", "", nil)
	fullNew := record(t, "full-new", "DE APTA", profiles.TierFull, "2021-01-01", "", nil)
	liteNew := record(t, "lite-new", "DE APTA", profiles.TierLite, "2023-01-01", "", nil)

	tests := []struct {
		name   string
		a, b   *profiles.Profile
		winner string
	}{
		{"full beats newer lite", liteNew, fullOld, "full-old"},
		{"full beats newer lite reversed", fullOld, liteNew, "full-old"},
		{"recency within tier", fullNew, fullOld, "full-new"},
		{"tie goes to b", fullOld, fullOld.Clone(), "full-old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, loser := PickWinner(tt.a, tt.b)
			assert.Equal(t, tt.winner, winner.UID)
			assert.NotSame(t, winner, loser)
		})
	}
}

func TestOrder(t *testing.T) {
	a := record(t, "lite-2", "DE APTA", profiles.TierLite, "2022-01-01", "", nil)
	b := record(t, "full-1", "DE APTA", profiles.TierFull, "2020-01-01", "", nil)
	c := record(t, "lite-1", "DE APTA", profiles.TierLite, "2021-01-01", "", nil)
	d := record(t, "lite-1b", "DE APTA", profiles.TierLite, "2021-01-01", "", nil)
	input := []*profiles.Profile{a, b, c, d}

	ordered := Order(input)

	uids := make([]string, 0, len(ordered))
	for _, p := range ordered {
		uids = append(uids, p.UID)
	}
	assert.Equal(t, []string{"lite-1", "lite-1b", "lite-2", "full-1"}, uids)
	assert.Equal(t, "lite-2", input[0].UID, "input order kept")
}
