package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/pkg/clubs"
)

func TestClubRegistryStrategy(t *testing.T) {
	s := NewClubRegistryStrategy(clubs.MustDefault())

	tests := []struct {
		name       string
		candidates []Candidate
		want       string
		ok         bool
	}{
		{
			name: "nutricia outranks apta",
			candidates: []Candidate{
				{ClubID: "DE APTA", Value: "Consumer"},
				{ClubID: "DE NUTRICIA", Value: "Patient"},
			},
			want: "Patient", ok: true,
		},
		{
			name: "milupa outranks unranked club",
			candidates: []Candidate{
				{ClubID: "DE VOLVIC", Value: "HCP"},
				{ClubID: "DE MILUPA", Value: "Consumer"},
			},
			want: "Consumer", ok: true,
		},
		{
			name:       "falls back to value priority",
			candidates: []Candidate{{ClubID: "DE VOLVIC", Value: "Consumer"}, {ClubID: "DE YOPRO", Value: "Carer"}},
			want:       "Carer", ok: true,
		},
		{
			name:       "no qualifying value",
			candidates: []Candidate{{ClubID: "DE VOLVIC", Value: "Unknown"}},
			ok:         false,
		},
		{name: "no candidates", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason, ok := s.Resolve(tt.candidates)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Value)
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestPriorityListStrategy(t *testing.T) {
	s := NewPriorityListStrategy(nil)
	assert.Equal(t, StrategyTypePriorityList, s.Type())
	assert.Contains(t, s.Description(), "HCP > Carer > Patient > Consumer")

	got, _, ok := s.Resolve([]Candidate{
		{ClubID: "DE NUTRICIA", Value: "Patient"},
		{ClubID: "DE APTA", Value: "HCP"},
	})
	require.True(t, ok)
	assert.Equal(t, "HCP", got.Value)
}

func TestParseStrategyType(t *testing.T) {
	tests := []struct {
		in      string
		want    StrategyType
		wantErr bool
	}{
		{"", StrategyTypeClubRegistry, false},
		{"club-registry", StrategyTypeClubRegistry, false},
		{"priority-list", StrategyTypePriorityList, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategyType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
